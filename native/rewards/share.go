package rewards

import "math/big"

const (
	// BalanceWeight and ScoreWeight blend the two components of the base
	// share; together they sum to WeightDenominator.
	BalanceWeight     = 60
	ScoreWeight       = 40
	WeightDenominator = 100
)

// BaseShare computes an account's proportional claim on the pool from its
// current balance and participation score. The balance and score portions
// truncate independently, so the combined share never exceeds the
// idealised real-valued share. A zero balance, aggregate score or total
// supply yields a zero share.
func BaseShare(pool, balance, totalSupply *big.Int, score, totalScore uint64) *big.Int {
	if pool == nil || balance == nil || totalSupply == nil {
		return big.NewInt(0)
	}
	if balance.Sign() <= 0 || totalScore == 0 || totalSupply.Sign() <= 0 {
		return big.NewInt(0)
	}

	balancePart := new(big.Int).Mul(pool, big.NewInt(BalanceWeight))
	balancePart.Mul(balancePart, balance)
	balancePart.Quo(balancePart, new(big.Int).Mul(big.NewInt(WeightDenominator), totalSupply))

	scorePart := new(big.Int).Mul(pool, big.NewInt(ScoreWeight))
	scorePart.Mul(scorePart, new(big.Int).SetUint64(score))
	scoreDenom := new(big.Int).Mul(big.NewInt(WeightDenominator), new(big.Int).SetUint64(totalScore))
	scorePart.Quo(scorePart, scoreDenom)

	return balancePart.Add(balancePart, scorePart)
}
