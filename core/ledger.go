package core

import (
	"fmt"
	"log/slog"
	"math/big"

	"arcledger/core/errors"
	"arcledger/core/state"
	"arcledger/core/types"
	"arcledger/native/fees"
	"arcledger/native/participation"
	"arcledger/native/rewards"
	"arcledger/observability/metrics"
	"arcledger/storage"
)

// Ledger orchestrates every mutating operation over the account store and
// the shared global record. All operations are serialized by the caller;
// the ledger itself performs no internal locking. The logical clock (block
// height) is supplied explicitly on each state-changing call so behaviour
// stays deterministic under synthetic clocks.
type Ledger struct {
	state     *state.Manager
	admin     types.Address
	log       *slog.Logger
	telemetry *metrics.LedgerMetrics
}

// NewLedger constructs a ledger bound to the provided database, with the
// distinguished administrator address for gated operations.
func NewLedger(db storage.Database, admin types.Address, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		state:     state.NewManager(db),
		admin:     admin,
		log:       logger,
		telemetry: metrics.Ledger(),
	}
}

// State exposes the underlying state manager, primarily for invariant
// checks in tests and for the inspection CLI.
func (l *Ledger) State() *state.Manager {
	if l == nil {
		return nil
	}
	return l.state
}

// Register creates the account record for the address at the supplied
// block height with the opening participation score. Duplicate
// registrations fail without touching state.
func (l *Ledger) Register(addr types.Address, height uint64) error {
	_, exists, err := l.state.GetAccount(addr)
	if err != nil {
		return err
	}
	if exists {
		return errors.ErrAlreadyRegistered
	}
	global, err := l.state.Global()
	if err != nil {
		return err
	}

	account := types.NewAccount(participation.InitialScore, height)
	global.TotalParticipationScore += participation.InitialScore
	global.RegisteredCount++

	if err := l.state.PutAccount(addr, account); err != nil {
		return err
	}
	if err := l.state.AppendAccountIndex(addr); err != nil {
		return err
	}
	if err := l.state.PutGlobal(global); err != nil {
		return err
	}
	l.log.Info("account registered", "address", addr.Hex(), "height", height)
	return nil
}

// Mint credits new supply to a registered recipient. Only the
// administrator may mint.
func (l *Ledger) Mint(caller, recipient types.Address, amount *big.Int) error {
	if caller != l.admin {
		return errors.ErrUnauthorized
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.ErrInvalidAmount
	}
	account, ok, err := l.state.GetAccount(recipient)
	if err != nil {
		return err
	}
	if !ok || !account.Registered {
		return errors.ErrNotRegistered
	}
	global, err := l.state.Global()
	if err != nil {
		return err
	}

	account.Balance = new(big.Int).Add(account.Balance, amount)
	global.TotalSupply = new(big.Int).Add(global.TotalSupply, amount)

	if err := l.state.PutAccount(recipient, account); err != nil {
		return err
	}
	if err := l.state.PutGlobal(global); err != nil {
		return err
	}
	l.telemetry.ObserveMint()
	l.log.Info("supply minted", "recipient", recipient.Hex(), "amount", amount.String())
	return nil
}

// Transfer moves amount from sender to recipient, carving the protocol
// fee into the redistribution pool. Every precondition is checked before
// any mutation; a violation aborts with zero observable side effects.
//
// Effect order is significant: holdings accrue against pre-transfer
// balances, then balances move, then the pool is funded, then scores
// transition, and finally both activity stamps advance.
func (l *Ledger) Transfer(sender, recipient types.Address, amount *big.Int, height uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.ErrInvalidAmount
	}
	senderAcct, ok, err := l.state.GetAccount(sender)
	if err != nil {
		return err
	}
	if !ok || !senderAcct.Registered {
		return errors.ErrNotRegistered
	}
	aliased := sender == recipient
	recipientAcct := senderAcct
	if !aliased {
		recipientAcct, ok, err = l.state.GetAccount(recipient)
		if err != nil {
			return err
		}
		if !ok || !recipientAcct.Registered {
			return errors.ErrNotRegistered
		}
	}
	if senderAcct.Balance.Cmp(amount) < 0 {
		return errors.ErrInsufficientBalance
	}
	global, err := l.state.Global()
	if err != nil {
		return err
	}

	l.accrueHoldings(senderAcct, height)
	if !aliased {
		l.accrueHoldings(recipientAcct, height)
	}

	fee, net := fees.Split(amount)
	senderAcct.Balance = new(big.Int).Sub(senderAcct.Balance, amount)
	recipientAcct.Balance = new(big.Int).Add(recipientAcct.Balance, net)
	global.RedistributionPool = new(big.Int).Add(global.RedistributionPool, fee)

	l.advanceScore(senderAcct, global, height)
	if !aliased {
		l.advanceScore(recipientAcct, global, height)
	}
	senderAcct.LastActivityBlock = height
	recipientAcct.LastActivityBlock = height

	if err := l.state.PutAccount(sender, senderAcct); err != nil {
		return err
	}
	if !aliased {
		if err := l.state.PutAccount(recipient, recipientAcct); err != nil {
			return err
		}
	}
	if err := l.state.PutGlobal(global); err != nil {
		return err
	}

	l.telemetry.ObserveTransfer(fee)
	l.telemetry.SetPoolBalance(global.RedistributionPool)
	l.log.Info("transfer applied",
		"sender", sender.Hex(),
		"recipient", recipient.Hex(),
		"amount", amount.String(),
		"fee", fee.String(),
		"height", height,
	)
	return nil
}

// SetRedistributionActive toggles the gate on the batch distribution path
// and returns the new state. Administrator only.
func (l *Ledger) SetRedistributionActive(caller types.Address, active bool) (bool, error) {
	if caller != l.admin {
		return false, errors.ErrUnauthorized
	}
	global, err := l.state.Global()
	if err != nil {
		return false, err
	}
	global.RedistributionActive = active
	if err := l.state.PutGlobal(global); err != nil {
		return false, err
	}
	l.log.Info("redistribution toggled", "active", active)
	return global.RedistributionActive, nil
}

// ExecuteRedistribution runs the batch payout algorithm over the supplied
// beneficiaries in order and returns the per-beneficiary payout amounts
// (zero for ineligible entries, same length and order as the input).
//
// The outer gates are all-or-nothing: a failed gate aborts before any
// beneficiary is processed. Within the batch, each beneficiary is
// evaluated against the pool as already depleted by earlier entries, so
// list order affects outcomes.
func (l *Ledger) ExecuteRedistribution(caller types.Address, beneficiaries []types.Address, height uint64) ([]*big.Int, error) {
	if caller != l.admin {
		return nil, errors.ErrUnauthorized
	}
	if len(beneficiaries) > rewards.MaxBatchSize {
		return nil, fmt.Errorf("ledger: batch of %d exceeds maximum %d", len(beneficiaries), rewards.MaxBatchSize)
	}
	global, err := l.state.Global()
	if err != nil {
		return nil, err
	}
	if !global.RedistributionActive {
		return nil, errors.ErrRedistributionLocked
	}
	if global.RedistributionPool.Sign() <= 0 {
		return nil, errors.ErrNoRewards
	}

	// Account mutations are staged and committed only after the whole
	// batch is evaluated, so a failed global write leaves no partial
	// credits behind. Repeated beneficiaries observe their staged record,
	// matching the sequential read-modify-write of the store.
	staged := make(map[types.Address]*types.Account)
	order := make([]types.Address, 0, len(beneficiaries))

	payouts := make([]*big.Int, 0, len(beneficiaries))
	for _, addr := range beneficiaries {
		account := staged[addr]
		if account == nil {
			loaded, ok, err := l.state.GetAccount(addr)
			if err != nil {
				return nil, err
			}
			if !ok || !loaded.Registered {
				payouts = append(payouts, big.NewInt(0))
				l.telemetry.ObservePayout(false)
				continue
			}
			account = loaded
		}

		result := rewards.EvaluatePayout(rewards.PayoutInput{
			Balance:          account.Balance,
			Pool:             global.RedistributionPool,
			TotalSupply:      global.TotalSupply,
			Score:            account.ParticipationScore,
			TotalScore:       global.TotalParticipationScore,
			BlocksHeld:       elapsedBlocks(account.LastActivityBlock, height),
			BlocksSinceClaim: elapsedBlocks(account.LastClaimBlock, height),
		})
		if !result.Eligible {
			payouts = append(payouts, big.NewInt(0))
			l.telemetry.ObservePayout(false)
			continue
		}

		account.Balance = new(big.Int).Add(account.Balance, result.Amount)
		global.RedistributionPool = new(big.Int).Sub(global.RedistributionPool, result.Amount)
		account.LastClaimBlock = height

		oldScore := account.ParticipationScore
		account.ParticipationScore = participation.ApplyClaimBoost(oldScore)
		global.ApplyScoreDelta(oldScore, account.ParticipationScore)

		if _, seen := staged[addr]; !seen {
			order = append(order, addr)
		}
		staged[addr] = account
		payouts = append(payouts, new(big.Int).Set(result.Amount))
		l.telemetry.ObservePayout(true)
		l.telemetry.ObserveScoreTransition("claim")
	}

	if err := l.state.PutGlobal(global); err != nil {
		return nil, err
	}
	for _, addr := range order {
		if err := l.state.PutAccount(addr, staged[addr]); err != nil {
			return nil, err
		}
	}
	l.telemetry.SetPoolBalance(global.RedistributionPool)
	l.log.Info("redistribution executed",
		"beneficiaries", len(beneficiaries),
		"pool", global.RedistributionPool.String(),
		"height", height,
	)
	return payouts, nil
}

// accrueHoldings extends the cumulative holdings of the account using its
// pre-transfer balance over the interval since its last activity. It must
// run before the balance mutates.
func (l *Ledger) accrueHoldings(account *types.Account, height uint64) {
	held := elapsedBlocks(account.LastActivityBlock, height)
	account.CumulativeHoldings = participation.AccrueHoldings(account.CumulativeHoldings, account.Balance, held)
}

// advanceScore runs a single decay/boost transition for the account and
// folds the signed delta into the global aggregate. The activity stamp is
// advanced by the caller afterwards, so repeated activity within the same
// block observes zero elapsed time and boosts exactly once per event.
func (l *Ledger) advanceScore(account *types.Account, global *types.GlobalState, height uint64) {
	elapsed := elapsedBlocks(account.LastActivityBlock, height)
	oldScore := account.ParticipationScore
	newScore, decayed := participation.Advance(oldScore, elapsed)
	account.ParticipationScore = newScore
	global.ApplyScoreDelta(oldScore, newScore)
	kind := "boost"
	if decayed {
		kind = "decay"
	}
	l.telemetry.ObserveScoreTransition(kind)
}

// elapsedBlocks guards against a stale reference stamp: the host clock is
// monotonic by assumption, but a stamp at or beyond the current height
// yields zero elapsed blocks rather than an underflow.
func elapsedBlocks(since, height uint64) uint64 {
	if height <= since {
		return 0
	}
	return height - since
}
