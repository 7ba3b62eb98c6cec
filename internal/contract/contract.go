package contract

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Contract bundles the parsed crowdfunding ABI with its deployed address and
// a bound instance for calls and transactions.
type Contract struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
}

// ParseABI parses the canonical crowdfunding ABI.
func ParseABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(CrowdfundingABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse crowdfunding ABI: %w", err)
	}
	return parsed, nil
}

// New binds the crowdfunding contract at addr to the given backend.
func New(addr common.Address, backend bind.ContractBackend) (*Contract, error) {
	parsed, err := ParseABI()
	if err != nil {
		return nil, err
	}

	return &Contract{
		address: addr,
		abi:     parsed,
		bound:   bind.NewBoundContract(addr, parsed, backend, backend, backend),
	}, nil
}

// Address returns the deployed contract address.
func (c *Contract) Address() common.Address {
	return c.address
}

// ABI returns the parsed contract ABI.
func (c *Contract) ABI() abi.ABI {
	return c.abi
}

// Bound returns the underlying bound contract.
func (c *Contract) Bound() *bind.BoundContract {
	return c.bound
}

// EventID returns the topic hash for a named event, or an error when the
// event is not part of the ABI.
func (c *Contract) EventID(name string) (common.Hash, error) {
	event, ok := c.abi.Events[name]
	if !ok {
		return common.Hash{}, fmt.Errorf("event %s not found in ABI", name)
	}
	return event.ID, nil
}
