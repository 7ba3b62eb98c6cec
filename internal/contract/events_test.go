package contract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContract(t *testing.T) *Contract {
	t.Helper()
	c, err := New(common.HexToAddress("0x00000000000000000000000000000000000000aa"), nil)
	require.NoError(t, err)
	return c
}

func topicFromID(id int64) common.Hash {
	return common.BigToHash(big.NewInt(id))
}

func topicFromAddress(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func TestParseABIHasExpectedSurface(t *testing.T) {
	parsed, err := ParseABI()
	require.NoError(t, err)

	for _, method := range []string{
		"createCampaign", "contribute", "withdrawFunds", "claimRefund", "cancelCampaign",
		"getCampaignDetails", "getCampaignStats", "getPlatformStats",
		"getContribution", "canClaimRefund", "campaignCounter",
	} {
		_, ok := parsed.Methods[method]
		assert.True(t, ok, "method %s missing", method)
	}
	for _, event := range []string{EventCampaignCreated, EventContributionMade, EventGoalReached} {
		_, ok := parsed.Events[event]
		assert.True(t, ok, "event %s missing", event)
	}
}

func TestParseCampaignCreated(t *testing.T) {
	c := testContract(t)
	creator := common.HexToAddress("0x1111111111111111111111111111111111111111")

	data, err := c.PackEventData(EventCampaignCreated,
		"Clean water", big.NewInt(1e18), big.NewInt(2000000000), "Community", big.NewInt(1900000000))
	require.NoError(t, err)

	id, err := c.EventID(EventCampaignCreated)
	require.NoError(t, err)

	event, err := c.ParseCampaignCreated(types.Log{
		Topics: []common.Hash{id, topicFromID(7), topicFromAddress(creator)},
		Data:   data,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), event.CampaignID.Int64())
	assert.Equal(t, creator, event.Creator)
	assert.Equal(t, "Clean water", event.Title)
	assert.Equal(t, big.NewInt(1e18), event.Goal)
	assert.Equal(t, "Community", event.Category)
	assert.Equal(t, int64(1900000000), event.Timestamp.Int64())
}

func TestParseContributionMade(t *testing.T) {
	c := testContract(t)
	contributor := common.HexToAddress("0x2222222222222222222222222222222222222222")

	data, err := c.PackEventData(EventContributionMade,
		big.NewInt(5e17), big.NewInt(15e17), big.NewInt(1900000500))
	require.NoError(t, err)

	id, err := c.EventID(EventContributionMade)
	require.NoError(t, err)

	event, err := c.ParseContributionMade(types.Log{
		Topics: []common.Hash{id, topicFromID(3), topicFromAddress(contributor)},
		Data:   data,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), event.CampaignID.Int64())
	assert.Equal(t, contributor, event.Contributor)
	assert.Equal(t, big.NewInt(5e17), event.Amount)
	assert.Equal(t, big.NewInt(15e17), event.NewTotal)
}

func TestParseGoalReached(t *testing.T) {
	c := testContract(t)

	data, err := c.PackEventData(EventGoalReached, big.NewInt(2e18), big.NewInt(1900001000))
	require.NoError(t, err)

	id, err := c.EventID(EventGoalReached)
	require.NoError(t, err)

	event, err := c.ParseGoalReached(types.Log{
		Topics: []common.Hash{id, topicFromID(9)},
		Data:   data,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), event.CampaignID.Int64())
	assert.Equal(t, big.NewInt(2e18), event.TotalRaised)
}

func TestParseRejectsWrongEvent(t *testing.T) {
	c := testContract(t)

	goalID, err := c.EventID(EventGoalReached)
	require.NoError(t, err)

	_, err = c.ParseCampaignCreated(types.Log{
		Topics: []common.Hash{goalID, topicFromID(1), topicFromID(2)},
	})
	assert.Error(t, err)
}

func TestParseRejectsWrongTopicCount(t *testing.T) {
	c := testContract(t)

	id, err := c.EventID(EventContributionMade)
	require.NoError(t, err)

	data, err := c.PackEventData(EventContributionMade,
		big.NewInt(1), big.NewInt(2), big.NewInt(3))
	require.NoError(t, err)

	_, err = c.ParseContributionMade(types.Log{
		Topics: []common.Hash{id, topicFromID(1)},
		Data:   data,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topics")
}

func TestParseRejectsTruncatedData(t *testing.T) {
	c := testContract(t)

	id, err := c.EventID(EventGoalReached)
	require.NoError(t, err)

	_, err = c.ParseGoalReached(types.Log{
		Topics: []common.Hash{id, topicFromID(1)},
		Data:   []byte{0x01, 0x02},
	})
	assert.Error(t, err)
}
