package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z1shivam/blocklift/internal/config"
)

// Well-known development keys, never used on a live network.
var testKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
}

func testAddress(t *testing.T, hexKey string) common.Address {
	t.Helper()
	key, err := crypto.HexToECDSA(hexKey)
	require.NoError(t, err)
	return crypto.PubkeyToAddress(key.PublicKey)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.WalletConfig{PrivateKeys: testKeys})
	require.NoError(t, err)
	return m
}

type denyingApprover struct {
	reason string
}

func (d denyingApprover) Approve(context.Context, common.Address, TxRequest) error {
	return errors.New(d.reason)
}

func TestNewManagerRejectsBadKey(t *testing.T) {
	_, err := NewManager(config.WalletConfig{PrivateKeys: []string{"not-a-key"}})
	assert.Error(t, err)
}

func TestConnectActivatesFirstAccount(t *testing.T) {
	m := newTestManager(t)

	_, ok := m.ActiveAccount()
	assert.False(t, ok, "manager must start disconnected")

	addr, err := m.Connect()
	require.NoError(t, err)
	assert.Equal(t, testAddress(t, testKeys[0]).Hex(), addr)

	active, ok := m.ActiveAccount()
	require.True(t, ok)
	assert.Equal(t, addr, active.Hex())
}

func TestConnectWithoutKeys(t *testing.T) {
	m, err := NewManager(config.WalletConfig{})
	require.NoError(t, err)

	_, err = m.Connect()
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestSwitchAccount(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Connect()
	require.NoError(t, err)

	second := testAddress(t, "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d")
	require.NoError(t, m.SwitchAccount(second.Hex()))

	active, ok := m.ActiveAccount()
	require.True(t, ok)
	assert.Equal(t, second, active)

	assert.ErrorIs(t, m.SwitchAccount("0x3333333333333333333333333333333333333333"), ErrUnknownAccount)
}

func TestSubscribeReceivesLifecycleEvents(t *testing.T) {
	m := newTestManager(t)

	var events []AccountEvent
	id := m.Subscribe(func(ev AccountEvent) { events = append(events, ev) })

	addr, err := m.Connect()
	require.NoError(t, err)
	m.Disconnect()
	m.Disconnect() // second disconnect is a no-op

	require.Len(t, events, 2)
	assert.True(t, events[0].Connected)
	assert.Equal(t, addr, events[0].Address)
	assert.False(t, events[1].Connected)

	m.Unsubscribe(id)
	_, err = m.Connect()
	require.NoError(t, err)
	assert.Len(t, events, 2, "unsubscribed callback must not fire")
}

func TestAuthorize(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Connect()
	require.NoError(t, err)

	value := big.NewInt(500)
	auth, err := m.Authorize(context.Background(), big.NewInt(11155111), TxRequest{
		Method:     "contribute",
		CampaignID: 2,
		Value:      value,
	})
	require.NoError(t, err)
	assert.Equal(t, testAddress(t, testKeys[0]), auth.From)
	assert.Zero(t, value.Cmp(auth.Value))
}

func TestAuthorizeWithoutConnection(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Authorize(context.Background(), big.NewInt(1), TxRequest{Method: "contribute"})
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestAuthorizeDenied(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Connect()
	require.NoError(t, err)

	m.SetApprover(denyingApprover{reason: "nope"})
	_, err = m.Authorize(context.Background(), big.NewInt(1), TxRequest{Method: "withdrawFunds", CampaignID: 1})
	require.ErrorIs(t, err, ErrApprovalDenied)
	assert.Contains(t, err.Error(), "nope")

	m.SetApprover(nil) // restores the auto approver
	_, err = m.Authorize(context.Background(), big.NewInt(1), TxRequest{Method: "withdrawFunds", CampaignID: 1})
	assert.NoError(t, err)
}

func TestAccounts(t *testing.T) {
	m := newTestManager(t)
	addrs := m.Accounts()
	require.Len(t, addrs, 2)
	assert.Equal(t, testAddress(t, testKeys[0]).Hex(), addrs[0])
}
