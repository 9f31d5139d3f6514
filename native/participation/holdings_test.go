package participation

import (
	"math/big"
	"testing"
)

func TestAccrueHoldings(t *testing.T) {
	total := AccrueHoldings(big.NewInt(100), big.NewInt(250), 4)
	if total.Int64() != 1100 {
		t.Fatalf("accrued = %d, want 1100", total.Int64())
	}
}

func TestAccrueHoldingsZeroInterval(t *testing.T) {
	total := AccrueHoldings(big.NewInt(100), big.NewInt(250), 0)
	if total.Int64() != 100 {
		t.Fatalf("zero interval changed total: %d", total.Int64())
	}
}

func TestAccrueHoldingsNilInputs(t *testing.T) {
	total := AccrueHoldings(nil, nil, 10)
	if total.Sign() != 0 {
		t.Fatalf("nil inputs accrued %s", total)
	}
}

func TestAccrueHoldingsDoesNotMutateInputs(t *testing.T) {
	cumulative := big.NewInt(7)
	balance := big.NewInt(3)
	AccrueHoldings(cumulative, balance, 5)
	if cumulative.Int64() != 7 || balance.Int64() != 3 {
		t.Fatalf("inputs mutated: cumulative=%s balance=%s", cumulative, balance)
	}
}
