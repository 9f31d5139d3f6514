package genesis

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"arcledger/core/types"
)

// Spec describes the opening state of a ledger: the administrator and the
// accounts seeded at block zero with their balances.
type Spec struct {
	Admin string       `yaml:"admin"`
	Alloc []Allocation `yaml:"alloc"`
}

// Allocation seeds one account. Balance is a decimal string so large
// amounts survive YAML round-trips without float coercion.
type Allocation struct {
	Address string `yaml:"address"`
	Balance string `yaml:"balance"`
}

// LoadSpec parses a genesis specification from the YAML file at path.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis spec: %w", err)
	}
	spec := new(Spec)
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("parse genesis spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Validate checks the spec for parseable addresses and balances before any
// state is written.
func (s *Spec) Validate() error {
	if s == nil {
		return fmt.Errorf("genesis spec required")
	}
	if strings.TrimSpace(s.Admin) == "" {
		return fmt.Errorf("genesis admin address required")
	}
	if _, err := types.ParseAddress(s.Admin); err != nil {
		return fmt.Errorf("genesis admin: %w", err)
	}
	seen := make(map[types.Address]struct{}, len(s.Alloc))
	for i, alloc := range s.Alloc {
		addr, err := types.ParseAddress(alloc.Address)
		if err != nil {
			return fmt.Errorf("genesis alloc %d: %w", i, err)
		}
		if _, dup := seen[addr]; dup {
			return fmt.Errorf("genesis alloc %d: duplicate address %s", i, addr.Hex())
		}
		seen[addr] = struct{}{}
		if _, err := alloc.Amount(); err != nil {
			return fmt.Errorf("genesis alloc %d: %w", i, err)
		}
	}
	return nil
}

// AdminAddress returns the parsed administrator address.
func (s *Spec) AdminAddress() (types.Address, error) {
	return types.ParseAddress(s.Admin)
}

// Amount parses the allocation balance. An empty balance registers the
// account without minting.
func (a Allocation) Amount() (*big.Int, error) {
	trimmed := strings.TrimSpace(a.Balance)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid balance %q", a.Balance)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("negative balance %q", a.Balance)
	}
	return amount, nil
}
