package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z1shivam/blocklift/internal/web3"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

type fakeReader struct {
	campaigns []*web3.CampaignDetails
	byCreator map[string][]*web3.CampaignDetails
	stats     *web3.PlatformStats
	err       error
}

func (f *fakeReader) GetAllCampaigns(ctx context.Context, start, limit int64) ([]*web3.CampaignDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > int64(len(f.campaigns)) {
		limit = int64(len(f.campaigns))
	}
	return f.campaigns[:limit], nil
}

func (f *fakeReader) GetCampaignsByCreator(ctx context.Context, creator string) ([]*web3.CampaignDetails, error) {
	return f.byCreator[creator], f.err
}

func (f *fakeReader) GetCampaignDetails(ctx context.Context, campaignID int64) (*web3.CampaignDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.campaigns {
		if c.ID == campaignID {
			return c, nil
		}
	}
	return nil, web3.ErrCampaignNotFound
}

func (f *fakeReader) GetPlatformStats(ctx context.Context) (*web3.PlatformStats, error) {
	return f.stats, f.err
}

func newTestAggregate(reader *fakeReader) *Service {
	svc := NewService(reader)
	svc.now = func() time.Time { return testNow }
	return svc
}

func campaign(id int64, title string, goal, raised string, daysToDeadline, ageDays, contributors int64) *web3.CampaignDetails {
	return &web3.CampaignDetails{
		ID:               id,
		Creator:          "0x1111111111111111111111111111111111111111",
		Title:            title,
		Description:      "A campaign used to exercise the derived listing views.",
		Category:         "Community",
		Goal:             goal,
		TotalRaised:      raised,
		Deadline:         testNow.Add(time.Duration(daysToDeadline) * 24 * time.Hour).Unix(),
		CreatedAt:        testNow.Add(-time.Duration(ageDays) * 24 * time.Hour).Unix(),
		IsActive:         true,
		ContributorCount: contributors,
	}
}

func titles(campaigns []*web3.CampaignDetails) []string {
	out := make([]string, len(campaigns))
	for i, c := range campaigns {
		out[i] = c.Title
	}
	return out
}

func TestFeaturedCampaignsOrdering(t *testing.T) {
	reader := &fakeReader{campaigns: []*web3.CampaignDetails{
		// 90% funded, closing soon: 90 + 50 + 30 = 170
		campaign(1, "urgent", "1.0", "0.9", 3, 20, 4),
		// 50% funded, far deadline: 50
		campaign(2, "steady", "1.0", "0.5", 60, 20, 4),
		// 80% funded, far deadline: 80 + 30 = 110
		campaign(3, "strong", "1.0", "0.8", 60, 20, 4),
	}}
	svc := newTestAggregate(reader)

	featured, err := svc.FeaturedCampaigns(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "strong", "steady"}, titles(featured))
}

func TestTrendingCampaignsOrdering(t *testing.T) {
	reader := &fakeReader{campaigns: []*web3.CampaignDetails{
		// 10% funded, new, 20 contributors: 10 + 50 + 50 + 100 = 210
		campaign(1, "viral", "1.0", "0.1", 30, 2, 20),
		// 60% funded, old, 5 contributors: 60 + 50 + 25 = 135
		campaign(2, "established", "1.0", "0.6", 30, 30, 5),
		// 10% funded, new, no contributors yet: 10 + 50 + 50 = 110
		campaign(3, "fresh", "1.0", "0.1", 30, 2, 0),
	}}
	svc := newTestAggregate(reader)

	trending, err := svc.TrendingCampaigns(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"viral", "established"}, titles(trending))
}

func TestSearchCampaigns(t *testing.T) {
	water := campaign(1, "Clean Water Initiative", "1.0", "0.1", 30, 2, 1)
	school := campaign(2, "School library", "1.0", "0.1", 30, 2, 1)
	school.Description = "Books and clean reading spaces for kids."
	reader := &fakeReader{campaigns: []*web3.CampaignDetails{water, school}}
	svc := newTestAggregate(reader)

	matches, err := svc.SearchCampaigns(context.Background(), "CLEAN", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Clean Water Initiative", "School library"}, titles(matches))

	matches, err = svc.SearchCampaigns(context.Background(), "library", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"School library"}, titles(matches))

	matches, err = svc.SearchCampaigns(context.Background(), "nothing here", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchCampaignsHonorsLimit(t *testing.T) {
	reader := &fakeReader{campaigns: []*web3.CampaignDetails{
		campaign(1, "match one", "1.0", "0", 30, 2, 0),
		campaign(2, "match two", "1.0", "0", 30, 2, 0),
		campaign(3, "match three", "1.0", "0", 30, 2, 0),
	}}
	svc := newTestAggregate(reader)

	matches, err := svc.SearchCampaigns(context.Background(), "match", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestCampaignsByCategory(t *testing.T) {
	education := campaign(1, "STEM kits", "1.0", "0", 30, 2, 0)
	education.Category = "Education"
	reader := &fakeReader{campaigns: []*web3.CampaignDetails{
		education,
		campaign(2, "Park benches", "1.0", "0", 30, 2, 0),
	}}
	svc := newTestAggregate(reader)

	matches, err := svc.CampaignsByCategory(context.Background(), "Education", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"STEM kits"}, titles(matches))
}

func TestFormatCampaign(t *testing.T) {
	svc := newTestAggregate(&fakeReader{})

	c := campaign(1, "halfway", "2.0", "1.0", 10, 5, 3)
	display := svc.FormatCampaign(c)
	assert.Equal(t, "50.00", display.FundingPercentage)
	assert.Equal(t, int64(10), display.DaysLeft)
	assert.False(t, display.IsExpired)
	assert.False(t, display.IsFullyFunded)
	assert.Equal(t, "2.0000", display.FormattedGoal)
	assert.Equal(t, "1.0000", display.FormattedRaised)
}

func TestFormatCampaignExpired(t *testing.T) {
	svc := newTestAggregate(&fakeReader{})

	c := campaign(1, "over", "1.0", "1.5", -3, 40, 9)
	display := svc.FormatCampaign(c)
	assert.True(t, display.IsExpired)
	assert.Zero(t, display.DaysLeft)
	assert.True(t, display.IsFullyFunded)
	assert.Equal(t, "150.00", display.FundingPercentage)
}

func TestFormatCampaignZeroGoal(t *testing.T) {
	svc := newTestAggregate(&fakeReader{})

	c := campaign(1, "odd", "0.0", "1.0", 10, 1, 1)
	display := svc.FormatCampaign(c)
	assert.Equal(t, "0.00", display.FundingPercentage)
	assert.False(t, display.IsFullyFunded)
}

func TestCampaignWithStats(t *testing.T) {
	reader := &fakeReader{campaigns: []*web3.CampaignDetails{
		campaign(4, "detail", "1.0", "0.25", 20, 2, 2),
	}}
	svc := newTestAggregate(reader)

	display, err := svc.CampaignWithStats(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "detail", display.Title)
	assert.Equal(t, "25.00", display.FundingPercentage)

	_, err = svc.CampaignWithStats(context.Background(), 99)
	assert.ErrorIs(t, err, web3.ErrCampaignNotFound)
}

func TestUserCampaigns(t *testing.T) {
	mine := campaign(1, "mine", "1.0", "0", 30, 2, 0)
	reader := &fakeReader{byCreator: map[string][]*web3.CampaignDetails{
		"0xabc": {mine},
	}}
	svc := newTestAggregate(reader)

	campaigns, err := svc.UserCampaigns(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, titles(campaigns))
}
