package participation

import "math/big"

// AccrueHoldings extends a cumulative holdings total by balance held over
// the given number of blocks. The balance must be the value held during
// the elapsed interval, read before any transfer mutates it. The result is
// a fresh big integer; the inputs are never modified.
func AccrueHoldings(cumulative, balance *big.Int, blocksHeld uint64) *big.Int {
	total := big.NewInt(0)
	if cumulative != nil {
		total.Set(cumulative)
	}
	if balance == nil || balance.Sign() <= 0 || blocksHeld == 0 {
		return total
	}
	accrued := new(big.Int).Mul(balance, new(big.Int).SetUint64(blocksHeld))
	return total.Add(total, accrued)
}
