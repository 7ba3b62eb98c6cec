package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Event names emitted by the crowdfunding contract.
const (
	EventCampaignCreated  = "CampaignCreated"
	EventContributionMade = "ContributionMade"
	EventGoalReached      = "GoalReached"
)

// CampaignCreatedEvent is the decoded CampaignCreated log.
type CampaignCreatedEvent struct {
	CampaignID *big.Int
	Creator    common.Address
	Title      string
	Goal       *big.Int
	Deadline   *big.Int
	Category   string
	Timestamp  *big.Int
	Raw        types.Log
}

// ContributionMadeEvent is the decoded ContributionMade log.
type ContributionMadeEvent struct {
	CampaignID  *big.Int
	Contributor common.Address
	Amount      *big.Int
	NewTotal    *big.Int
	Timestamp   *big.Int
	Raw         types.Log
}

// GoalReachedEvent is the decoded GoalReached log.
type GoalReachedEvent struct {
	CampaignID  *big.Int
	TotalRaised *big.Int
	Timestamp   *big.Int
	Raw         types.Log
}

// ParseCampaignCreated decodes a CampaignCreated log, rejecting logs whose
// topic count or data layout does not match the ABI.
func (c *Contract) ParseCampaignCreated(log types.Log) (*CampaignCreatedEvent, error) {
	values, err := c.unpackEvent(EventCampaignCreated, log, 3, 5)
	if err != nil {
		return nil, err
	}

	title, ok := values[0].(string)
	if !ok {
		return nil, fmt.Errorf("CampaignCreated: title is %T, want string", values[0])
	}
	goal, err := bigIntValue("goal", values[1])
	if err != nil {
		return nil, fmt.Errorf("CampaignCreated: %w", err)
	}
	deadline, err := bigIntValue("deadline", values[2])
	if err != nil {
		return nil, fmt.Errorf("CampaignCreated: %w", err)
	}
	category, ok := values[3].(string)
	if !ok {
		return nil, fmt.Errorf("CampaignCreated: category is %T, want string", values[3])
	}
	timestamp, err := bigIntValue("timestamp", values[4])
	if err != nil {
		return nil, fmt.Errorf("CampaignCreated: %w", err)
	}

	return &CampaignCreatedEvent{
		CampaignID: new(big.Int).SetBytes(log.Topics[1].Bytes()),
		Creator:    common.BytesToAddress(log.Topics[2].Bytes()),
		Title:      title,
		Goal:       goal,
		Deadline:   deadline,
		Category:   category,
		Timestamp:  timestamp,
		Raw:        log,
	}, nil
}

// ParseContributionMade decodes a ContributionMade log.
func (c *Contract) ParseContributionMade(log types.Log) (*ContributionMadeEvent, error) {
	values, err := c.unpackEvent(EventContributionMade, log, 3, 3)
	if err != nil {
		return nil, err
	}

	amount, err := bigIntValue("amount", values[0])
	if err != nil {
		return nil, fmt.Errorf("ContributionMade: %w", err)
	}
	newTotal, err := bigIntValue("newTotal", values[1])
	if err != nil {
		return nil, fmt.Errorf("ContributionMade: %w", err)
	}
	timestamp, err := bigIntValue("timestamp", values[2])
	if err != nil {
		return nil, fmt.Errorf("ContributionMade: %w", err)
	}

	return &ContributionMadeEvent{
		CampaignID:  new(big.Int).SetBytes(log.Topics[1].Bytes()),
		Contributor: common.BytesToAddress(log.Topics[2].Bytes()),
		Amount:      amount,
		NewTotal:    newTotal,
		Timestamp:   timestamp,
		Raw:         log,
	}, nil
}

// ParseGoalReached decodes a GoalReached log.
func (c *Contract) ParseGoalReached(log types.Log) (*GoalReachedEvent, error) {
	values, err := c.unpackEvent(EventGoalReached, log, 2, 2)
	if err != nil {
		return nil, err
	}

	totalRaised, err := bigIntValue("totalRaised", values[0])
	if err != nil {
		return nil, fmt.Errorf("GoalReached: %w", err)
	}
	timestamp, err := bigIntValue("timestamp", values[1])
	if err != nil {
		return nil, fmt.Errorf("GoalReached: %w", err)
	}

	return &GoalReachedEvent{
		CampaignID:  new(big.Int).SetBytes(log.Topics[1].Bytes()),
		TotalRaised: totalRaised,
		Timestamp:   timestamp,
		Raw:         log,
	}, nil
}

// unpackEvent validates the log signature and arity before unpacking the
// non-indexed data section.
func (c *Contract) unpackEvent(name string, log types.Log, wantTopics, wantValues int) ([]interface{}, error) {
	event, ok := c.abi.Events[name]
	if !ok {
		return nil, fmt.Errorf("event %s not found in ABI", name)
	}
	if len(log.Topics) == 0 || log.Topics[0] != event.ID {
		return nil, fmt.Errorf("log is not a %s event", name)
	}
	if len(log.Topics) != wantTopics {
		return nil, fmt.Errorf("%s: got %d topics, want %d", name, len(log.Topics), wantTopics)
	}

	values, err := c.abi.Unpack(name, log.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s data: %w", name, err)
	}
	if len(values) != wantValues {
		return nil, fmt.Errorf("%s: got %d data values, want %d", name, len(values), wantValues)
	}
	return values, nil
}

func bigIntValue(name string, v interface{}) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s is %T, want *big.Int", name, v)
	}
	return n, nil
}

// PackEventData encodes the non-indexed arguments of a named event. Used by
// tests and local tooling to fabricate logs matching the ABI layout.
func (c *Contract) PackEventData(name string, args ...interface{}) ([]byte, error) {
	event, ok := c.abi.Events[name]
	if !ok {
		return nil, fmt.Errorf("event %s not found in ABI", name)
	}

	nonIndexed := make(abi.Arguments, 0, len(event.Inputs))
	for _, input := range event.Inputs {
		if !input.Indexed {
			nonIndexed = append(nonIndexed, input)
		}
	}
	return nonIndexed.Pack(args...)
}
