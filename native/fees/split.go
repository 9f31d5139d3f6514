package fees

import "math/big"

const (
	// FeeBps is the transfer fee rate in basis points.
	FeeBps = 200
	// BpsDenominator defines the fixed basis point denominator.
	BpsDenominator = 10_000
)

var (
	feeBpsBig = big.NewInt(FeeBps)
	denomBig  = big.NewInt(BpsDenominator)
)

// Fee computes the protocol fee for a transfer amount using truncating
// division, so rounding always favours the pool. Callers are responsible
// for rejecting non-positive amounts before invoking the splitter.
func Fee(amount *big.Int) *big.Int {
	if amount == nil || amount.Sign() <= 0 {
		return big.NewInt(0)
	}
	fee := new(big.Int).Mul(amount, feeBpsBig)
	return fee.Quo(fee, denomBig)
}

// Split returns the fee and the net amount delivered to the recipient. The
// fee is carved out of the transferred amount, never added on top, so
// fee + net always equals the gross amount.
func Split(amount *big.Int) (fee *big.Int, net *big.Int) {
	fee = Fee(amount)
	if amount == nil {
		return fee, big.NewInt(0)
	}
	net = new(big.Int).Sub(amount, fee)
	return fee, net
}
