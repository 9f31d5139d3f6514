package rewards

import "math/big"

const (
	// MinHoldBlocks is the minimum holding period before the time
	// multiplier ramps and before a claim becomes eligible.
	MinHoldBlocks = 144
	// MultiplierScale is the fixed point scale for the time multiplier
	// and velocity bonus.
	MultiplierScale = 10_000
	// MaxMultiplier caps the time multiplier at 2.0x.
	MaxMultiplier = 20_000
	// VelocityBonusBps is the flat bonus for accounts that claimed
	// recently, encouraging frequent interaction.
	VelocityBonusBps = 1_500
	// VelocityWindowBlocks bounds how recent the last claim must be for
	// the velocity bonus to apply.
	VelocityWindowBlocks = 2 * MinHoldBlocks
	// EligibilityDivisor sets the minimum balance threshold at 0.1% of
	// total supply.
	EligibilityDivisor = 1_000
	// MaxBatchSize bounds the beneficiary list of a single batch.
	MaxBatchSize = 10
)

// HoldMultiplier returns the scaled time multiplier for a holding streak.
// Below the minimum holding period the multiplier is neutral. From there
// it ramps linearly and reaches the 2.0x cap exactly at ten times the
// minimum period.
func HoldMultiplier(blocksHeld uint64) uint64 {
	if blocksHeld < MinHoldBlocks {
		return MultiplierScale
	}
	// Capped from ten periods onward; the ramp product below would
	// overflow uint64 for extreme streaks.
	if blocksHeld >= MinHoldBlocks*10 {
		return MaxMultiplier
	}
	return MultiplierScale + blocksHeld*MultiplierScale/(MinHoldBlocks*10)
}

// VelocityBonus returns the scaled bonus for a recent claim, zero once the
// last claim falls outside the velocity window.
func VelocityBonus(blocksSinceClaim uint64) uint64 {
	if blocksSinceClaim < VelocityWindowBlocks {
		return VelocityBonusBps
	}
	return 0
}

// MinimumEligibleBalance returns the balance floor an account must hold to
// participate in a batch distribution.
func MinimumEligibleBalance(totalSupply *big.Int) *big.Int {
	if totalSupply == nil || totalSupply.Sign() <= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Quo(totalSupply, big.NewInt(EligibilityDivisor))
}

// PayoutInput captures the state snapshot required to evaluate a single
// beneficiary within a batch distribution. Pool is the remaining pool at
// the moment this beneficiary is processed, so later entries in a batch
// observe the depletion caused by earlier ones.
type PayoutInput struct {
	Balance          *big.Int
	Pool             *big.Int
	TotalSupply      *big.Int
	Score            uint64
	TotalScore       uint64
	BlocksHeld       uint64
	BlocksSinceClaim uint64
}

// PayoutResult summarises the evaluation for one beneficiary. Amount is
// zero whenever the beneficiary is ineligible.
type PayoutResult struct {
	Base          *big.Int
	Multiplier    uint64
	VelocityBonus uint64
	Amount        *big.Int
	Eligible      bool
}

// EvaluatePayout applies the time multiplier, velocity bonus and
// eligibility threshold on top of the base proportional share. The
// adjusted amount truncates once after both scaled factors are applied.
// Eligibility requires the balance floor, a positive adjusted amount and
// a full holding period since the last claim; all three must hold.
func EvaluatePayout(input PayoutInput) PayoutResult {
	result := PayoutResult{
		Base:          BaseShare(input.Pool, input.Balance, input.TotalSupply, input.Score, input.TotalScore),
		Multiplier:    HoldMultiplier(input.BlocksHeld),
		VelocityBonus: VelocityBonus(input.BlocksSinceClaim),
		Amount:        big.NewInt(0),
	}

	adjusted := new(big.Int).Mul(result.Base, new(big.Int).SetUint64(result.Multiplier))
	adjusted.Mul(adjusted, new(big.Int).SetUint64(MultiplierScale+result.VelocityBonus))
	adjusted.Quo(adjusted, big.NewInt(MultiplierScale*MultiplierScale))

	if adjusted.Sign() <= 0 {
		return result
	}
	if input.BlocksSinceClaim < MinHoldBlocks {
		return result
	}
	if input.Balance == nil || input.Balance.Cmp(MinimumEligibleBalance(input.TotalSupply)) < 0 {
		return result
	}

	result.Amount = adjusted
	result.Eligible = true
	return result
}
