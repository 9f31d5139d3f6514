package types

import "math/big"

// GlobalState is the single shared record tracking supply, the fee pool and
// the score aggregate. TotalParticipationScore must always equal the sum of
// every account's participation score; it is maintained incrementally on
// each score mutation.
type GlobalState struct {
	RedistributionPool      *big.Int `json:"redistributionPool"`
	TotalSupply             *big.Int `json:"totalSupply"`
	TotalParticipationScore uint64   `json:"totalParticipationScore"`
	RedistributionActive    bool     `json:"redistributionActive"`
	RegisteredCount         uint64   `json:"registeredCount"`
}

// NewGlobalState returns an empty global record with zeroed amounts.
func NewGlobalState() *GlobalState {
	return &GlobalState{
		RedistributionPool: big.NewInt(0),
		TotalSupply:        big.NewInt(0),
	}
}

// EnsureDefaults normalises nil big integer fields to zero.
func (g *GlobalState) EnsureDefaults() {
	if g == nil {
		return
	}
	if g.RedistributionPool == nil {
		g.RedistributionPool = big.NewInt(0)
	}
	if g.TotalSupply == nil {
		g.TotalSupply = big.NewInt(0)
	}
}

// ApplyScoreDelta adjusts the aggregate score by the signed difference
// between an account's old and new score.
func (g *GlobalState) ApplyScoreDelta(oldScore, newScore uint64) {
	if g == nil {
		return
	}
	g.TotalParticipationScore += newScore
	g.TotalParticipationScore -= oldScore
}
