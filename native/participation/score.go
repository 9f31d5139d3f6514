package participation

// Score bounds and transition constants for the participation engine.
const (
	// InitialScore is assigned at registration without going through a
	// decay or boost transition.
	InitialScore = 5_000
	// MaxScore caps every account score.
	MaxScore = 10_000
	// DecayThresholdBlocks is the idle window after which a score decays
	// instead of boosting.
	DecayThresholdBlocks = 1_000
	// ClaimBoost is the flat increment applied on a successful
	// redistribution claim.
	ClaimBoost = 100
)

// Advance applies a single decay or boost transition for an account that
// has been idle for elapsed blocks. Idle longer than the threshold decays
// the score to 9/10; otherwise the score is boosted by one percent of its
// current value. Both use truncating division, so a score below 100 gains
// nothing from a boost and stalls until it decays to zero or is lifted by
// a claim. The returned flag reports whether the transition decayed.
func Advance(score uint64, elapsedBlocks uint64) (uint64, bool) {
	if elapsedBlocks > DecayThresholdBlocks {
		return score * 9 / 10, true
	}
	boosted := score + score/100
	if boosted > MaxScore {
		boosted = MaxScore
	}
	return boosted, false
}

// ApplyClaimBoost lifts the score by the flat claim increment, capped at
// the maximum. This is distinct from the proportional boost in Advance.
func ApplyClaimBoost(score uint64) uint64 {
	boosted := score + ClaimBoost
	if boosted > MaxScore {
		boosted = MaxScore
	}
	return boosted
}
