package web3

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/z1shivam/blocklift/internal/contract"
	"github.com/z1shivam/blocklift/internal/logger"
	"github.com/z1shivam/blocklift/internal/wallet"
)

// logSubscriber is the slice of ethclient used for live log streams.
type logSubscriber interface {
	SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// EventSubscription is a handle for one live event stream. Events are
// observed from subscription time only; there is no replay. Callers must
// call Unsubscribe when done.
type EventSubscription struct {
	sub  ethereum.Subscription
	done chan struct{}
	once sync.Once
}

// Unsubscribe tears down the stream. Safe to call more than once.
func (s *EventSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.sub.Unsubscribe()
		close(s.done)
	})
}

// OnCampaignCreated streams decoded CampaignCreated events to cb.
func (s *Service) OnCampaignCreated(ctx context.Context, cb func(*contract.CampaignCreatedEvent)) (*EventSubscription, error) {
	return s.watch(ctx, contract.EventCampaignCreated, func(log types.Log) {
		ev, err := s.contract.ParseCampaignCreated(log)
		if err != nil {
			logger.Warn("Dropping malformed CampaignCreated log: %v", err)
			return
		}
		cb(ev)
	})
}

// OnContributionMade streams decoded ContributionMade events to cb.
func (s *Service) OnContributionMade(ctx context.Context, cb func(*contract.ContributionMadeEvent)) (*EventSubscription, error) {
	return s.watch(ctx, contract.EventContributionMade, func(log types.Log) {
		ev, err := s.contract.ParseContributionMade(log)
		if err != nil {
			logger.Warn("Dropping malformed ContributionMade log: %v", err)
			return
		}
		cb(ev)
	})
}

// OnGoalReached streams decoded GoalReached events to cb.
func (s *Service) OnGoalReached(ctx context.Context, cb func(*contract.GoalReachedEvent)) (*EventSubscription, error) {
	return s.watch(ctx, contract.EventGoalReached, func(log types.Log) {
		ev, err := s.contract.ParseGoalReached(log)
		if err != nil {
			logger.Warn("Dropping malformed GoalReached log: %v", err)
			return
		}
		cb(ev)
	})
}

// watch subscribes to one event signature on the contract address.
// Subscriptions require wallet mode with a connected account.
func (s *Service) watch(ctx context.Context, eventName string, handle func(types.Log)) (*EventSubscription, error) {
	if s.wallet == nil {
		return nil, errors.New("event subscriptions require wallet mode")
	}
	if _, ok := s.wallet.ActiveAccount(); !ok {
		return nil, wallet.ErrNoAccount
	}
	if err := s.ensureSubscriber(ctx); err != nil {
		return nil, err
	}

	eventID, err := s.contract.EventID(eventName)
	if err != nil {
		return nil, err
	}

	query := ethereum.FilterQuery{
		Addresses: []common.Address{s.contract.Address()},
		Topics:    [][]common.Hash{{eventID}},
	}
	logs := make(chan types.Log, 16)
	sub, err := s.subscriber.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		return nil, err
	}

	es := &EventSubscription{sub: sub, done: make(chan struct{})}
	go func() {
		for {
			select {
			case log := <-logs:
				handle(log)
			case err := <-sub.Err():
				if err != nil {
					logger.Error("%s subscription terminated: %v", eventName, err)
				}
				return
			case <-es.done:
				return
			}
		}
	}()
	return es, nil
}

// ensureSubscriber dials the websocket endpoint once.
func (s *Service) ensureSubscriber(ctx context.Context) error {
	if err := s.ensureReadOnly(ctx); err != nil {
		return err
	}

	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.subscriber != nil {
		return nil
	}
	if s.cfg.WsUrl == "" {
		return errors.New("no websocket endpoint configured for event subscriptions")
	}

	wsClient, err := ethclient.DialContext(ctx, s.cfg.WsUrl)
	if err != nil {
		return err
	}
	s.wsClient = wsClient
	s.subscriber = wsClient
	return nil
}
