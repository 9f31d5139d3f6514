package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"arcledger/core/types"
)

// globalStateCodec is the persisted form of the global record. RLP
// integers are unsigned, but the unclamped batch payout debit can drive
// the redistribution pool negative, so the pool is stored as a sign flag
// plus magnitude to keep the record round-trippable.
type globalStateCodec struct {
	PoolNegative            bool
	PoolMagnitude           *big.Int
	TotalSupply             *big.Int
	TotalParticipationScore uint64
	RedistributionActive    bool
	RegisteredCount         uint64
}

func encodeGlobal(global *types.GlobalState) ([]byte, error) {
	global.EnsureDefaults()
	payload := globalStateCodec{
		PoolNegative:            global.RedistributionPool.Sign() < 0,
		PoolMagnitude:           new(big.Int).Abs(global.RedistributionPool),
		TotalSupply:             global.TotalSupply,
		TotalParticipationScore: global.TotalParticipationScore,
		RedistributionActive:    global.RedistributionActive,
		RegisteredCount:         global.RegisteredCount,
	}
	return rlp.EncodeToBytes(payload)
}

func decodeGlobal(data []byte) (*types.GlobalState, error) {
	payload := new(globalStateCodec)
	if err := rlp.DecodeBytes(data, payload); err != nil {
		return nil, err
	}
	pool := big.NewInt(0)
	if payload.PoolMagnitude != nil {
		pool.Set(payload.PoolMagnitude)
	}
	if payload.PoolNegative {
		pool.Neg(pool)
	}
	global := &types.GlobalState{
		RedistributionPool:      pool,
		TotalSupply:             payload.TotalSupply,
		TotalParticipationScore: payload.TotalParticipationScore,
		RedistributionActive:    payload.RedistributionActive,
		RegisteredCount:         payload.RegisteredCount,
	}
	global.EnsureDefaults()
	return global, nil
}
