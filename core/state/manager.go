package state

import (
	"fmt"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"arcledger/core/types"
	"arcledger/storage"
)

// Manager provides read/write access to account records and the shared
// global state over a key-value database. Records are RLP encoded and
// keyed by hashed, prefixed identifiers.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func accountKey(addr types.Address) []byte {
	buf := make([]byte, len(accountPrefix)+len(addr))
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], addr[:])
	return ethcrypto.Keccak256(buf)
}

func globalKey() []byte {
	return ethcrypto.Keccak256(globalKeyBytes)
}

func indexKey() []byte {
	return ethcrypto.Keccak256(accountIndexKey)
}

// GetAccount loads the account record for the address. Absent entries are
// reported through the boolean rather than fabricated as zero-valued
// records, so callers can distinguish "never registered" from defaults.
func (m *Manager) GetAccount(addr types.Address) (*types.Account, bool, error) {
	if m == nil {
		return nil, false, fmt.Errorf("state manager unavailable")
	}
	data, err := m.db.Get(accountKey(addr))
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	account := new(types.Account)
	if err := rlp.DecodeBytes(data, account); err != nil {
		return nil, false, err
	}
	account.EnsureDefaults()
	return account, true, nil
}

// PutAccount persists the account record for the address.
func (m *Manager) PutAccount(addr types.Address, account *types.Account) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if account == nil {
		return fmt.Errorf("account record required")
	}
	account.EnsureDefaults()
	encoded, err := rlp.EncodeToBytes(account)
	if err != nil {
		return err
	}
	return m.db.Put(accountKey(addr), encoded)
}

// Global loads the shared global record. Missing state defaults to an
// empty record with zeroed amounts.
func (m *Manager) Global() (*types.GlobalState, error) {
	if m == nil {
		return nil, fmt.Errorf("state manager unavailable")
	}
	data, err := m.db.Get(globalKey())
	if err != nil {
		if storage.IsNotFound(err) {
			return types.NewGlobalState(), nil
		}
		return nil, err
	}
	return decodeGlobal(data)
}

// PutGlobal persists the shared global record.
func (m *Manager) PutGlobal(global *types.GlobalState) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if global == nil {
		return fmt.Errorf("global record required")
	}
	encoded, err := encodeGlobal(global)
	if err != nil {
		return err
	}
	return m.db.Put(globalKey(), encoded)
}

// AccountIndex returns the addresses of every registered account in
// registration order.
func (m *Manager) AccountIndex() ([]types.Address, error) {
	if m == nil {
		return nil, fmt.Errorf("state manager unavailable")
	}
	data, err := m.db.Get(indexKey())
	if err != nil {
		if storage.IsNotFound(err) {
			return []types.Address{}, nil
		}
		return nil, err
	}
	var index []types.Address
	if err := rlp.DecodeBytes(data, &index); err != nil {
		return nil, err
	}
	return index, nil
}

// AppendAccountIndex records a newly registered address.
func (m *Manager) AppendAccountIndex(addr types.Address) error {
	index, err := m.AccountIndex()
	if err != nil {
		return err
	}
	index = append(index, addr)
	encoded, err := rlp.EncodeToBytes(index)
	if err != nil {
		return err
	}
	return m.db.Put(indexKey(), encoded)
}

// RecountScores walks every registered account and sums participation
// scores from scratch. Used by tests to cross-check the incrementally
// maintained aggregate.
func (m *Manager) RecountScores() (uint64, error) {
	index, err := m.AccountIndex()
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, addr := range index {
		account, ok, err := m.GetAccount(addr)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("indexed account %s missing", addr.Hex())
		}
		total += account.ParticipationScore
	}
	return total, nil
}

// CheckScoreInvariant verifies that the stored aggregate equals the full
// recount and that every score sits within bounds.
func (m *Manager) CheckScoreInvariant() error {
	global, err := m.Global()
	if err != nil {
		return err
	}
	recount, err := m.RecountScores()
	if err != nil {
		return err
	}
	if recount != global.TotalParticipationScore {
		return fmt.Errorf("score aggregate mismatch: recount %d stored %d", recount, global.TotalParticipationScore)
	}
	index, err := m.AccountIndex()
	if err != nil {
		return err
	}
	for _, addr := range index {
		account, ok, err := m.GetAccount(addr)
		if err != nil {
			return err
		}
		if ok && account.ParticipationScore > 10_000 {
			return fmt.Errorf("account %s score %d exceeds bound", addr.Hex(), account.ParticipationScore)
		}
	}
	return nil
}

// CheckSupplyInvariant verifies that balances plus the undistributed pool
// add up to the recorded total supply.
func (m *Manager) CheckSupplyInvariant() error {
	global, err := m.Global()
	if err != nil {
		return err
	}
	index, err := m.AccountIndex()
	if err != nil {
		return err
	}
	total := big.NewInt(0)
	for _, addr := range index {
		account, ok, err := m.GetAccount(addr)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if account.Balance.Sign() < 0 {
			return fmt.Errorf("account %s balance negative", addr.Hex())
		}
		total.Add(total, account.Balance)
	}
	total.Add(total, global.RedistributionPool)
	if total.Cmp(global.TotalSupply) != 0 {
		return fmt.Errorf("supply mismatch: balances+pool %s supply %s", total, global.TotalSupply)
	}
	return nil
}
