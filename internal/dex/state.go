package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"arbScope/internal/chain"
)

// FetchV2Reserves reads a V2 pair's packed reserves slot at the given
// block via eth_getStorageAt and unpacks it. The caller chooses the
// block; for opportunity evaluation that is the pre-state block (one
// before the block under analysis).
func FetchV2Reserves(ctx context.Context, client *chain.Client, pool common.Address, blockNumber uint64) (reserve0, reserve1 *big.Int, blockTimestampLast uint32, err error) {
	if client == nil {
		return nil, nil, 0, fmt.Errorf("chain client is nil")
	}

	slot := common.BigToHash(big.NewInt(V2ReservesSlot))
	raw, err := client.StorageAt(ctx, pool, slot, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("storage at %s slot %d: %w", pool.Hex(), V2ReservesSlot, err)
	}

	word, err := StorageWord(raw)
	if err != nil {
		return nil, nil, 0, err
	}
	return DecodeV2Reserves(word)
}

// FetchV3SqrtPrice reads a V3 pool's slot0 at the given block and
// extracts sqrtPriceX96.
func FetchV3SqrtPrice(ctx context.Context, client *chain.Client, pool common.Address, blockNumber uint64) (*big.Int, error) {
	if client == nil {
		return nil, fmt.Errorf("chain client is nil")
	}

	slot := common.BigToHash(big.NewInt(V3Slot0Slot))
	raw, err := client.StorageAt(ctx, pool, slot, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return nil, fmt.Errorf("storage at %s slot %d: %w", pool.Hex(), V3Slot0Slot, err)
	}

	word, err := StorageWord(raw)
	if err != nil {
		return nil, err
	}
	return DecodeV3SqrtPrice(word)
}
