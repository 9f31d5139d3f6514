package core

import (
	"math/big"

	"arcledger/core/types"
	"arcledger/native/rewards"
)

// Query surface. None of these mutate state; absent accounts read as
// zero-valued rather than being fabricated in the store.

// GetBalance returns the balance held by the address, zero when the
// account has never been registered.
func (l *Ledger) GetBalance(addr types.Address) (*big.Int, error) {
	account, ok, err := l.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(account.Balance), nil
}

// GetParticipationScore returns the current participation score for the
// address.
func (l *Ledger) GetParticipationScore(addr types.Address) (uint64, error) {
	account, ok, err := l.state.GetAccount(addr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return account.ParticipationScore, nil
}

// GetCumulativeHoldings returns the time-weighted holdings accumulator
// for the address.
func (l *Ledger) GetCumulativeHoldings(addr types.Address) (*big.Int, error) {
	account, ok, err := l.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(account.CumulativeHoldings), nil
}

// GetRedistributionPool returns the undistributed fee pool.
func (l *Ledger) GetRedistributionPool() (*big.Int, error) {
	global, err := l.state.Global()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(global.RedistributionPool), nil
}

// GetTotalSupply returns the minted token supply.
func (l *Ledger) GetTotalSupply() (*big.Int, error) {
	global, err := l.state.Global()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(global.TotalSupply), nil
}

// GetRegisteredCount returns the number of registered accounts.
func (l *Ledger) GetRegisteredCount() (uint64, error) {
	global, err := l.state.Global()
	if err != nil {
		return 0, err
	}
	return global.RegisteredCount, nil
}

// IsRedistributionActive reports whether the batch distribution path is
// currently enabled.
func (l *Ledger) IsRedistributionActive() (bool, error) {
	global, err := l.state.Global()
	if err != nil {
		return false, err
	}
	return global.RedistributionActive, nil
}

// GetPendingRewards returns the base proportional share the address would
// receive from the current pool, before any time or velocity adjustment.
func (l *Ledger) GetPendingRewards(addr types.Address) (*big.Int, error) {
	account, ok, err := l.state.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	global, err := l.state.Global()
	if err != nil {
		return nil, err
	}
	return rewards.BaseShare(
		global.RedistributionPool,
		account.Balance,
		global.TotalSupply,
		account.ParticipationScore,
		global.TotalParticipationScore,
	), nil
}
