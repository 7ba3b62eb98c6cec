package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/z1shivam/blocklift/internal/config"
	"github.com/z1shivam/blocklift/internal/logger"
)

var (
	// ErrApprovalDenied is returned when the approver declines to sign a
	// transaction. Callers classify this as a user-cancelled outcome.
	ErrApprovalDenied = errors.New("transaction approval denied by wallet")

	// ErrNoAccount is returned when a signing operation is attempted with no
	// connected account.
	ErrNoAccount = errors.New("no wallet account connected")

	// ErrUnknownAccount is returned when switching to an address the manager
	// does not hold a key for.
	ErrUnknownAccount = errors.New("unknown wallet account")
)

// TxRequest describes a transaction presented for approval.
type TxRequest struct {
	Method     string
	CampaignID int64
	Value      *big.Int // attached value in wei, nil for non-payable calls
}

// Approver decides whether a transaction may be signed. The default approver
// accepts everything; tests and interactive frontends install their own.
type Approver interface {
	Approve(ctx context.Context, from common.Address, req TxRequest) error
}

type autoApprover struct{}

func (autoApprover) Approve(context.Context, common.Address, TxRequest) error { return nil }

// AccountEvent notifies subscribers of connection-state changes.
type AccountEvent struct {
	Address   string
	Connected bool
}

type account struct {
	address common.Address
	key     *ecdsa.PrivateKey
}

// Manager tracks the active signing account and notifies subscribers on
// account changes. It is the single owner of wallet connection state; the
// adapter receives it explicitly rather than through a package singleton.
type Manager struct {
	mu       sync.RWMutex
	accounts []account
	active   int // index into accounts, -1 when disconnected
	approver Approver
	subs     map[int64]func(AccountEvent)
	nextSub  int64
}

// NewManager parses the configured private keys. The manager starts
// disconnected; Connect activates the first account.
func NewManager(cfg config.WalletConfig) (*Manager, error) {
	m := &Manager{
		active:   -1,
		approver: autoApprover{},
		subs:     make(map[int64]func(AccountEvent)),
	}

	for _, hexKey := range cfg.PrivateKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse wallet private key: %w", err)
		}
		m.accounts = append(m.accounts, account{
			address: crypto.PubkeyToAddress(key.PublicKey),
			key:     key,
		})
	}

	return m, nil
}

// SetApprover replaces the transaction approver.
func (m *Manager) SetApprover(a Approver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a == nil {
		a = autoApprover{}
	}
	m.approver = a
}

// Connect activates the first configured account and notifies subscribers.
func (m *Manager) Connect() (string, error) {
	m.mu.Lock()
	if len(m.accounts) == 0 {
		m.mu.Unlock()
		return "", ErrNoAccount
	}
	m.active = 0
	addr := m.accounts[0].address.Hex()
	m.mu.Unlock()

	logger.Info("Wallet connected: %s", shortAddress(addr))
	m.notify(AccountEvent{Address: addr, Connected: true})
	return addr, nil
}

// Disconnect clears the active account and notifies subscribers.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	wasConnected := m.active >= 0
	m.active = -1
	m.mu.Unlock()

	if wasConnected {
		logger.Info("Wallet disconnected")
		m.notify(AccountEvent{Connected: false})
	}
}

// SwitchAccount activates the account with the given address. There is no
// guard against an in-flight transaction racing the switch.
func (m *Manager) SwitchAccount(address string) error {
	target := common.HexToAddress(address)

	m.mu.Lock()
	idx := -1
	for i, acct := range m.accounts {
		if acct.address == target {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return ErrUnknownAccount
	}
	m.active = idx
	addr := m.accounts[idx].address.Hex()
	m.mu.Unlock()

	logger.Info("Wallet switched to %s", shortAddress(addr))
	m.notify(AccountEvent{Address: addr, Connected: true})
	return nil
}

// ActiveAccount returns the connected account address, if any.
func (m *Manager) ActiveAccount() (common.Address, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active < 0 {
		return common.Address{}, false
	}
	return m.accounts[m.active].address, true
}

// Accounts lists all addresses the manager holds keys for.
func (m *Manager) Accounts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	addrs := make([]string, 0, len(m.accounts))
	for _, acct := range m.accounts {
		addrs = append(addrs, acct.address.Hex())
	}
	return addrs
}

// Subscribe registers a callback for account-change events and returns a
// token for Unsubscribe.
func (m *Manager) Subscribe(fn func(AccountEvent)) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSub++
	m.subs[m.nextSub] = fn
	return m.nextSub
}

// Unsubscribe removes a previously registered callback.
func (m *Manager) Unsubscribe(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
}

// Authorize asks the approver to sign off on req and returns transact
// options bound to the active account.
func (m *Manager) Authorize(ctx context.Context, chainID *big.Int, req TxRequest) (*bind.TransactOpts, error) {
	m.mu.RLock()
	if m.active < 0 {
		m.mu.RUnlock()
		return nil, ErrNoAccount
	}
	acct := m.accounts[m.active]
	approver := m.approver
	m.mu.RUnlock()

	if err := approver.Approve(ctx, acct.address, req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrApprovalDenied, err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(acct.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	if req.Value != nil {
		auth.Value = new(big.Int).Set(req.Value)
	}
	return auth, nil
}

func (m *Manager) notify(ev AccountEvent) {
	m.mu.RLock()
	subs := make([]func(AccountEvent), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func shortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
