package dex

import (
	"fmt"
	"math/big"

	"arbScope/internal/model"
)

// Storage slot layout constants for direct eth_getStorageAt reads.
const (
	// V2 pairs pack (reserve0, reserve1, blockTimestampLast) into slot 8.
	V2ReservesSlot = 8
	// V3 pools keep slot0 (sqrtPriceX96 in the low 160 bits) at slot 0.
	V3Slot0Slot = 0
)

var (
	mask112 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))
	mask160 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))
)

// StorageWord converts a raw 32-byte storage value into an unsigned
// 256-bit integer. Any other width is a malformed payload.
func StorageWord(raw []byte) (*big.Int, error) {
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: storage word must be 32 bytes, got %d", model.ErrMalformedLog, len(raw))
	}
	return new(big.Int).SetBytes(raw), nil
}

// DecodeV2Reserves unpacks a V2 pair reserves slot: reserve0 occupies
// bits [0,112), reserve1 bits [112,224), blockTimestampLast bits
// [224,256). Pure bit masking, no rounding.
func DecodeV2Reserves(word *big.Int) (reserve0, reserve1 *big.Int, blockTimestampLast uint32, err error) {
	if word == nil || word.Sign() < 0 || word.BitLen() > 256 {
		return nil, nil, 0, fmt.Errorf("%w: reserves word must be an unsigned 256-bit integer", model.ErrMalformedLog)
	}

	reserve0 = new(big.Int).And(word, mask112)
	reserve1 = new(big.Int).And(new(big.Int).Rsh(word, 112), mask112)
	ts := new(big.Int).Rsh(word, 224)
	return reserve0, reserve1, uint32(ts.Uint64()), nil
}

// EncodeV2Reserves packs reserves and timestamp back into a single
// 256-bit slot word. Inverse of DecodeV2Reserves.
func EncodeV2Reserves(reserve0, reserve1 *big.Int, blockTimestampLast uint32) (*big.Int, error) {
	if reserve0 == nil || reserve0.Sign() < 0 || reserve0.BitLen() > 112 {
		return nil, fmt.Errorf("reserve0 must fit in 112 bits")
	}
	if reserve1 == nil || reserve1.Sign() < 0 || reserve1.BitLen() > 112 {
		return nil, fmt.Errorf("reserve1 must fit in 112 bits")
	}

	word := new(big.Int).SetUint64(uint64(blockTimestampLast))
	word.Lsh(word, 112)
	word.Or(word, reserve1)
	word.Lsh(word, 112)
	word.Or(word, reserve0)
	return word, nil
}

// DecodeV3SqrtPrice extracts sqrtPriceX96 (uint160) from the low bits of
// a V3 slot0 storage word.
func DecodeV3SqrtPrice(word *big.Int) (*big.Int, error) {
	if word == nil || word.Sign() < 0 || word.BitLen() > 256 {
		return nil, fmt.Errorf("%w: slot0 word must be an unsigned 256-bit integer", model.ErrMalformedLog)
	}
	return new(big.Int).And(word, mask160), nil
}
