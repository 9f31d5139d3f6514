package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	ledgererr "arcledger/core/errors"
	"arcledger/core/types"
	"arcledger/storage"
)

var (
	adminAddr = addr(0xAA)
	xAddr     = addr(0x01)
	yAddr     = addr(0x02)
)

func addr(b byte) types.Address {
	var a types.Address
	a[19] = b
	return a
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return NewLedger(storage.NewMemDB(), adminAddr, nil)
}

// seedTransferScenario registers two accounts, mints the full supply to X
// and moves part of it to Y so the pool is funded and both accounts carry
// boosted scores.
func seedTransferScenario(t *testing.T, l *Ledger, transferAmount int64, height uint64) {
	t.Helper()
	require.NoError(t, l.Register(xAddr, 0))
	require.NoError(t, l.Register(yAddr, 0))
	require.NoError(t, l.Mint(adminAddr, xAddr, big.NewInt(1_000_000)))
	require.NoError(t, l.Transfer(xAddr, yAddr, big.NewInt(transferAmount), height))
}

func TestRegister(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Register(xAddr, 5))

	score, err := l.GetParticipationScore(xAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), score)

	count, err := l.GetRegisteredCount()
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)

	require.ErrorIs(t, l.Register(xAddr, 6), ledgererr.ErrAlreadyRegistered)
	require.NoError(t, l.State().CheckScoreInvariant())
}

func TestMint(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Register(xAddr, 0))

	require.ErrorIs(t, l.Mint(yAddr, xAddr, big.NewInt(100)), ledgererr.ErrUnauthorized)
	require.ErrorIs(t, l.Mint(adminAddr, xAddr, big.NewInt(0)), ledgererr.ErrInvalidAmount)
	require.ErrorIs(t, l.Mint(adminAddr, yAddr, big.NewInt(100)), ledgererr.ErrNotRegistered)

	require.NoError(t, l.Mint(adminAddr, xAddr, big.NewInt(1_000_000)))
	balance, err := l.GetBalance(xAddr)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000), balance.Int64())
	supply, err := l.GetTotalSupply()
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000), supply.Int64())
	require.NoError(t, l.State().CheckSupplyInvariant())
}

func TestTransferPreconditionsLeaveStateUntouched(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Register(xAddr, 0))
	require.NoError(t, l.Register(yAddr, 0))
	require.NoError(t, l.Mint(adminAddr, xAddr, big.NewInt(1000)))

	require.ErrorIs(t, l.Transfer(xAddr, yAddr, big.NewInt(0), 10), ledgererr.ErrInvalidAmount)
	require.ErrorIs(t, l.Transfer(xAddr, addr(0x99), big.NewInt(10), 10), ledgererr.ErrNotRegistered)
	require.ErrorIs(t, l.Transfer(addr(0x99), yAddr, big.NewInt(10), 10), ledgererr.ErrNotRegistered)
	require.ErrorIs(t, l.Transfer(xAddr, yAddr, big.NewInt(1001), 10), ledgererr.ErrInsufficientBalance)

	// Failed preconditions must not mutate anything.
	balance, err := l.GetBalance(xAddr)
	require.NoError(t, err)
	require.Equal(t, int64(1000), balance.Int64())
	pool, err := l.GetRedistributionPool()
	require.NoError(t, err)
	require.Zero(t, pool.Sign())
	score, err := l.GetParticipationScore(xAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(5000), score)
	require.NoError(t, l.State().CheckScoreInvariant())
	require.NoError(t, l.State().CheckSupplyInvariant())
}

func TestTransferConservation(t *testing.T) {
	l := newTestLedger(t)
	seedTransferScenario(t, l, 200_000, 100)

	// fee(200000) = 4000, net = 196000
	xBalance, err := l.GetBalance(xAddr)
	require.NoError(t, err)
	require.Equal(t, int64(800_000), xBalance.Int64())
	yBalance, err := l.GetBalance(yAddr)
	require.NoError(t, err)
	require.Equal(t, int64(196_000), yBalance.Int64())
	pool, err := l.GetRedistributionPool()
	require.NoError(t, err)
	require.Equal(t, int64(4000), pool.Int64())

	// One boost transition per touched account.
	xScore, err := l.GetParticipationScore(xAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(5050), xScore)
	yScore, err := l.GetParticipationScore(yAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(5050), yScore)

	// Holdings accrued against the pre-transfer balances: X held the full
	// supply for 100 blocks, Y held nothing.
	xHoldings, err := l.GetCumulativeHoldings(xAddr)
	require.NoError(t, err)
	require.Equal(t, int64(100_000_000), xHoldings.Int64())
	yHoldings, err := l.GetCumulativeHoldings(yAddr)
	require.NoError(t, err)
	require.Zero(t, yHoldings.Sign())

	require.NoError(t, l.State().CheckScoreInvariant())
	require.NoError(t, l.State().CheckSupplyInvariant())
}

func TestTransferSameBlockBoostsOncePerEvent(t *testing.T) {
	l := newTestLedger(t)
	seedTransferScenario(t, l, 100_000, 100)

	// A second transfer in the same block sees zero elapsed time and still
	// applies exactly one boost per account for that event.
	require.NoError(t, l.Transfer(xAddr, yAddr, big.NewInt(100_000), 100))
	score, err := l.GetParticipationScore(xAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(5100), score)
	require.NoError(t, l.State().CheckScoreInvariant())
}

func TestTransferIdleDecay(t *testing.T) {
	l := newTestLedger(t)
	seedTransferScenario(t, l, 100_000, 100)

	// Idle for more than the threshold before the next transfer decays.
	require.NoError(t, l.Transfer(xAddr, yAddr, big.NewInt(1000), 1200))
	score, err := l.GetParticipationScore(xAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(4545), score) // floor(5050 * 9 / 10)
	require.NoError(t, l.State().CheckScoreInvariant())
}

func TestSetRedistributionActive(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.SetRedistributionActive(xAddr, true)
	require.ErrorIs(t, err, ledgererr.ErrUnauthorized)

	active, err := l.SetRedistributionActive(adminAddr, true)
	require.NoError(t, err)
	require.True(t, active)
	active, err = l.SetRedistributionActive(adminAddr, false)
	require.NoError(t, err)
	require.False(t, active)
}

func TestRedistributionGates(t *testing.T) {
	l := newTestLedger(t)
	seedTransferScenario(t, l, 200_000, 100)

	_, err := l.ExecuteRedistribution(xAddr, []types.Address{xAddr}, 400)
	require.ErrorIs(t, err, ledgererr.ErrUnauthorized)

	_, err = l.ExecuteRedistribution(adminAddr, []types.Address{xAddr}, 400)
	require.ErrorIs(t, err, ledgererr.ErrRedistributionLocked)

	oversized := make([]types.Address, 11)
	_, err = l.ExecuteRedistribution(adminAddr, oversized, 400)
	require.Error(t, err)

	// Active but with an empty pool.
	fresh := newTestLedger(t)
	_, err = fresh.SetRedistributionActive(adminAddr, true)
	require.NoError(t, err)
	_, err = fresh.ExecuteRedistribution(adminAddr, []types.Address{xAddr}, 400)
	require.ErrorIs(t, err, ledgererr.ErrNoRewards)
}

func TestRedistributionPayout(t *testing.T) {
	l := newTestLedger(t)
	seedTransferScenario(t, l, 200_000, 100)
	_, err := l.SetRedistributionActive(adminAddr, true)
	require.NoError(t, err)

	payouts, err := l.ExecuteRedistribution(adminAddr, []types.Address{xAddr}, 400)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	// base 2720, multiplier 12083, no velocity bonus -> 3286
	require.Equal(t, int64(3286), payouts[0].Int64())

	balance, err := l.GetBalance(xAddr)
	require.NoError(t, err)
	require.Equal(t, int64(803_286), balance.Int64())
	pool, err := l.GetRedistributionPool()
	require.NoError(t, err)
	require.Equal(t, int64(714), pool.Int64())
	score, err := l.GetParticipationScore(xAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(5150), score)

	require.NoError(t, l.State().CheckScoreInvariant())
	require.NoError(t, l.State().CheckSupplyInvariant())

	// Claiming again immediately is blocked by the holding period.
	payouts, err = l.ExecuteRedistribution(adminAddr, []types.Address{xAddr}, 401)
	require.NoError(t, err)
	require.Zero(t, payouts[0].Sign())
}

func TestRedistributionUnregisteredBeneficiary(t *testing.T) {
	l := newTestLedger(t)
	seedTransferScenario(t, l, 200_000, 100)
	_, err := l.SetRedistributionActive(adminAddr, true)
	require.NoError(t, err)

	payouts, err := l.ExecuteRedistribution(adminAddr, []types.Address{addr(0x99), xAddr}, 400)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	require.Zero(t, payouts[0].Sign())
	require.Positive(t, payouts[1].Sign())
}

func TestRedistributionOrderSensitivity(t *testing.T) {
	run := func(order []types.Address) []*big.Int {
		l := newTestLedger(t)
		seedTransferScenario(t, l, 200_000, 100)
		_, err := l.SetRedistributionActive(adminAddr, true)
		require.NoError(t, err)
		payouts, err := l.ExecuteRedistribution(adminAddr, order, 400)
		require.NoError(t, err)
		require.NoError(t, l.State().CheckSupplyInvariant())
		return payouts
	}

	xy := run([]types.Address{xAddr, yAddr})
	yx := run([]types.Address{yAddr, xAddr})

	// Later beneficiaries see the pool already depleted by earlier claims,
	// so each account fares no better when processed second.
	require.True(t, xy[1].Cmp(yx[0]) <= 0, "Y second %s vs first %s", xy[1], yx[0])
	require.True(t, yx[1].Cmp(xy[0]) <= 0, "X second %s vs first %s", yx[1], xy[0])
}

// TestRedistributionPoolOverdraw documents that the payout debit is not
// clamped to the remaining pool: a near-whole-pool base share combined
// with the capped time multiplier can drive the pool negative. Value is
// still conserved because the overdraw is matched by the credited
// balance; the unguarded debit is preserved behaviour, not a bug fix
// waiting to happen silently.
func TestRedistributionPoolOverdraw(t *testing.T) {
	l := newTestLedger(t)
	seedTransferScenario(t, l, 100_000, 10)
	_, err := l.SetRedistributionActive(adminAddr, true)
	require.NoError(t, err)

	payouts, err := l.ExecuteRedistribution(adminAddr, []types.Address{xAddr}, 2000)
	require.NoError(t, err)
	// base 1480 at the 2.0x multiplier cap -> 2960 against a pool of 2000
	require.Equal(t, int64(2960), payouts[0].Int64())

	pool, err := l.GetRedistributionPool()
	require.NoError(t, err)
	require.Equal(t, int64(-960), pool.Int64())

	require.NoError(t, l.State().CheckSupplyInvariant())
}

func TestQueriesOnAbsentAccount(t *testing.T) {
	l := newTestLedger(t)
	balance, err := l.GetBalance(addr(0x77))
	require.NoError(t, err)
	require.Zero(t, balance.Sign())
	score, err := l.GetParticipationScore(addr(0x77))
	require.NoError(t, err)
	require.Zero(t, score)
	pending, err := l.GetPendingRewards(addr(0x77))
	require.NoError(t, err)
	require.Zero(t, pending.Sign())
}

func TestGetPendingRewards(t *testing.T) {
	l := newTestLedger(t)
	seedTransferScenario(t, l, 200_000, 100)

	pending, err := l.GetPendingRewards(xAddr)
	require.NoError(t, err)
	// Matches the base share: 1920 balance part + 800 score part.
	require.Equal(t, int64(2720), pending.Int64())
}
