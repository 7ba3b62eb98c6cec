package aggregate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/z1shivam/blocklift/internal/web3"
)

// Page sizes for the bounded snapshot each derived view is computed over.
// Results are approximate once the campaign count exceeds the page.
const (
	featuredPage = 20
	trendingPage = 30
	searchPage   = 50
	categoryPage = 50
)

// campaignReader is the slice of the blockchain adapter this layer composes.
type campaignReader interface {
	GetAllCampaigns(ctx context.Context, start, limit int64) ([]*web3.CampaignDetails, error)
	GetCampaignsByCreator(ctx context.Context, creator string) ([]*web3.CampaignDetails, error)
	GetCampaignDetails(ctx context.Context, campaignID int64) (*web3.CampaignDetails, error)
	GetPlatformStats(ctx context.Context) (*web3.PlatformStats, error)
}

// Service derives listing views from adapter reads. It owns no state: every
// view is a pure function of a freshly fetched snapshot, recomputed per call.
type Service struct {
	reader campaignReader
	now    func() time.Time
}

// NewService creates the aggregation layer over the given adapter.
func NewService(reader campaignReader) *Service {
	return &Service{reader: reader, now: time.Now}
}

// CampaignDisplay is a campaign annotated with derived presentation fields.
type CampaignDisplay struct {
	web3.CampaignDetails
	FundingPercentage string `json:"fundingPercentage"`
	DaysLeft          int64  `json:"daysLeft"`
	IsExpired         bool   `json:"isExpired"`
	IsFullyFunded     bool   `json:"isFullyFunded"`
	FormattedGoal     string `json:"formattedGoal"`
	FormattedRaised   string `json:"formattedRaised"`
}

// ActiveCampaigns returns the newest active campaigns.
func (s *Service) ActiveCampaigns(ctx context.Context, limit int) ([]*web3.CampaignDetails, error) {
	if limit <= 0 {
		limit = 6
	}
	return s.reader.GetAllCampaigns(ctx, 0, int64(limit))
}

// AllCampaigns pages through active campaigns, newest first.
func (s *Service) AllCampaigns(ctx context.Context, start, limit int64) ([]*web3.CampaignDetails, error) {
	return s.reader.GetAllCampaigns(ctx, start, limit)
}

// FeaturedCampaigns scores active campaigns by funding progress and deadline
// urgency and returns the top entries.
func (s *Service) FeaturedCampaigns(ctx context.Context, limit int) ([]*web3.CampaignDetails, error) {
	if limit <= 0 {
		limit = 3
	}
	campaigns, err := s.reader.GetAllCampaigns(ctx, 0, featuredPage)
	if err != nil {
		return nil, err
	}

	now := float64(s.now().Unix())
	return topScored(campaigns, limit, func(c *web3.CampaignDetails) float64 {
		fp := fundingPercentage(c)
		daysLeft := (float64(c.Deadline) - now) / 86400

		score := fp
		if daysLeft < 7 {
			score += 50
		}
		if fp > 75 {
			score += 30
		}
		return score
	}), nil
}

// TrendingCampaigns scores campaigns by funding progress, recency and
// contributor count.
func (s *Service) TrendingCampaigns(ctx context.Context, limit int) ([]*web3.CampaignDetails, error) {
	if limit <= 0 {
		limit = 5
	}
	campaigns, err := s.reader.GetAllCampaigns(ctx, 0, trendingPage)
	if err != nil {
		return nil, err
	}

	now := float64(s.now().Unix())
	return topScored(campaigns, limit, func(c *web3.CampaignDetails) float64 {
		fp := fundingPercentage(c)
		ageInDays := (now - float64(c.CreatedAt)) / 86400

		score := fp + 50
		if ageInDays < 7 {
			score += 50
		}
		return score + float64(c.ContributorCount)*5
	}), nil
}

// SearchCampaigns matches the query case-insensitively against title and
// description of active campaigns.
func (s *Service) SearchCampaigns(ctx context.Context, query string, limit int) ([]*web3.CampaignDetails, error) {
	if limit <= 0 {
		limit = 10
	}
	campaigns, err := s.reader.GetAllCampaigns(ctx, 0, searchPage)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(query)
	matches := make([]*web3.CampaignDetails, 0, limit)
	for _, c := range campaigns {
		if strings.Contains(strings.ToLower(c.Title), term) ||
			strings.Contains(strings.ToLower(c.Description), term) {
			matches = append(matches, c)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches, nil
}

// CampaignsByCategory filters active campaigns by exact category.
func (s *Service) CampaignsByCategory(ctx context.Context, category string, limit int) ([]*web3.CampaignDetails, error) {
	if limit <= 0 {
		limit = 10
	}
	campaigns, err := s.reader.GetAllCampaigns(ctx, 0, categoryPage)
	if err != nil {
		return nil, err
	}

	matches := make([]*web3.CampaignDetails, 0, limit)
	for _, c := range campaigns {
		if c.Category == category {
			matches = append(matches, c)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches, nil
}

// UserCampaigns returns campaigns created by one address, newest first.
func (s *Service) UserCampaigns(ctx context.Context, creator string) ([]*web3.CampaignDetails, error) {
	return s.reader.GetCampaignsByCreator(ctx, creator)
}

// CampaignWithStats fetches one campaign and annotates it for display.
func (s *Service) CampaignWithStats(ctx context.Context, campaignID int64) (*CampaignDisplay, error) {
	campaign, err := s.reader.GetCampaignDetails(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return s.FormatCampaign(campaign), nil
}

// PlatformStats passes through the platform counters.
func (s *Service) PlatformStats(ctx context.Context) (*web3.PlatformStats, error) {
	return s.reader.GetPlatformStats(ctx)
}

// FormatCampaign derives the display fields for one campaign.
func (s *Service) FormatCampaign(c *web3.CampaignDetails) *CampaignDisplay {
	fp := fundingPercentage(c)
	timeLeft := float64(c.Deadline) - float64(s.now().Unix())
	daysLeft := int64(math.Ceil(timeLeft / 86400))

	display := &CampaignDisplay{
		CampaignDetails:   *c,
		FundingPercentage: strconv.FormatFloat(fp, 'f', 2, 64),
		DaysLeft:          daysLeft,
		IsExpired:         daysLeft < 0,
		IsFullyFunded:     fp >= 100,
		FormattedGoal:     formatEth4(c.Goal),
		FormattedRaised:   formatEth4(c.TotalRaised),
	}
	if display.DaysLeft < 0 {
		display.DaysLeft = 0
	}
	return display
}

func fundingPercentage(c *web3.CampaignDetails) float64 {
	goal, err := strconv.ParseFloat(c.Goal, 64)
	if err != nil || goal == 0 {
		return 0
	}
	raised, err := strconv.ParseFloat(c.TotalRaised, 64)
	if err != nil {
		return 0
	}
	return raised / goal * 100
}

func formatEth4(amount string) string {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount
	}
	return fmt.Sprintf("%.4f", v)
}

func topScored(campaigns []*web3.CampaignDetails, limit int, score func(*web3.CampaignDetails) float64) []*web3.CampaignDetails {
	type scored struct {
		campaign *web3.CampaignDetails
		score    float64
	}

	list := make([]scored, 0, len(campaigns))
	for _, c := range campaigns {
		list = append(list, scored{campaign: c, score: score(c)})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	if limit > len(list) {
		limit = len(list)
	}
	top := make([]*web3.CampaignDetails, 0, limit)
	for _, sc := range list[:limit] {
		top = append(top, sc.campaign)
	}
	return top
}
