package types

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// Address identifies an account in the ledger.
type Address [20]byte

// ParseAddress decodes a hex encoded address with an optional 0x prefix.
func ParseAddress(value string) (Address, error) {
	var addr Address
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %w", value, err)
	}
	if len(decoded) != len(addr) {
		return addr, fmt.Errorf("invalid address length %d", len(decoded))
	}
	copy(addr[:], decoded)
	return addr, nil
}

// Hex renders the address as a 0x prefixed hex string.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Account captures the per-identity ledger record. Balances and cumulative
// holdings are kept as big integers; the participation score is bounded to
// [0, 10000] by the score engine.
type Account struct {
	Balance            *big.Int `json:"balance"`
	ParticipationScore uint64   `json:"participationScore"`
	LastActivityBlock  uint64   `json:"lastActivityBlock"`
	LastClaimBlock     uint64   `json:"lastClaimBlock"`
	CumulativeHoldings *big.Int `json:"cumulativeHoldings"`
	Registered         bool     `json:"registered"`
}

// NewAccount returns a registered account with the opening participation
// score, stamped at the supplied block height.
func NewAccount(score uint64, height uint64) *Account {
	return &Account{
		Balance:            big.NewInt(0),
		ParticipationScore: score,
		LastActivityBlock:  height,
		LastClaimBlock:     height,
		CumulativeHoldings: big.NewInt(0),
		Registered:         true,
	}
}

// EnsureDefaults normalises nil big integer fields to zero so decoded
// records never expose nil amounts.
func (a *Account) EnsureDefaults() {
	if a == nil {
		return
	}
	if a.Balance == nil {
		a.Balance = big.NewInt(0)
	}
	if a.CumulativeHoldings == nil {
		a.CumulativeHoldings = big.NewInt(0)
	}
}

// Clone returns a deep copy of the account record.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := &Account{
		ParticipationScore: a.ParticipationScore,
		LastActivityBlock:  a.LastActivityBlock,
		LastClaimBlock:     a.LastClaimBlock,
		Registered:         a.Registered,
	}
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	} else {
		clone.Balance = big.NewInt(0)
	}
	if a.CumulativeHoldings != nil {
		clone.CumulativeHoldings = new(big.Int).Set(a.CumulativeHoldings)
	} else {
		clone.CumulativeHoldings = big.NewInt(0)
	}
	return clone
}
