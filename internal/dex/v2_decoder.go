package dex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"arbScope/internal/model"
)

// V2SwapAmounts are the four unsigned word fields of a V2 Swap event in
// payload order.
type V2SwapAmounts struct {
	Amount0In  *big.Int
	Amount1In  *big.Int
	Amount0Out *big.Int
	Amount1Out *big.Int
}

// DecodeV2SwapData splits a V2 Swap event payload into its four
// big-endian uint256 words. The payload must be exactly four 32-byte
// words (128 bytes).
func DecodeV2SwapData(data []byte) (V2SwapAmounts, error) {
	if len(data) != 128 {
		return V2SwapAmounts{}, fmt.Errorf("%w: v2 swap data must be 128 bytes, got %d", model.ErrMalformedLog, len(data))
	}
	return V2SwapAmounts{
		Amount0In:  new(big.Int).SetBytes(data[0:32]),
		Amount1In:  new(big.Int).SetBytes(data[32:64]),
		Amount0Out: new(big.Int).SetBytes(data[64:96]),
		Amount1Out: new(big.Int).SetBytes(data[96:128]),
	}, nil
}

// DecodeTransferData extracts the amount word of an ERC-20 Transfer
// event payload (one 32-byte word).
func DecodeTransferData(data []byte) (*big.Int, error) {
	if len(data) != 32 {
		return nil, fmt.Errorf("%w: transfer data must be 32 bytes, got %d", model.ErrMalformedLog, len(data))
	}
	return new(big.Int).SetBytes(data), nil
}

// Signed nets the in/out fields into the signed convention used by
// SwapEvent: inputs positive, outputs negative. A nonzero in and out for
// the same token in one event cannot come from a well-formed pair.
func (a V2SwapAmounts) Signed() (amount0, amount1 *big.Int, err error) {
	if a.Amount0In.Sign() != 0 && a.Amount0Out.Sign() != 0 {
		return nil, nil, fmt.Errorf("%w: amount0In and amount0Out both nonzero", model.ErrMalformedLog)
	}
	if a.Amount1In.Sign() != 0 && a.Amount1Out.Sign() != 0 {
		return nil, nil, fmt.Errorf("%w: amount1In and amount1Out both nonzero", model.ErrMalformedLog)
	}

	amount0 = new(big.Int).Sub(a.Amount0In, a.Amount0Out)
	amount1 = new(big.Int).Sub(a.Amount1In, a.Amount1Out)
	return amount0, amount1, nil
}

func decodeV2SwapLog(pool common.Address, topics []common.Hash, data []byte) (model.SwapEvent, error) {
	// topic0 + indexed sender + indexed to
	if len(topics) != 3 {
		return model.SwapEvent{}, fmt.Errorf("%w: v2 swap expects 3 topics, got %d", model.ErrMalformedLog, len(topics))
	}

	amounts, err := DecodeV2SwapData(data)
	if err != nil {
		return model.SwapEvent{}, err
	}
	amount0, amount1, err := amounts.Signed()
	if err != nil {
		return model.SwapEvent{}, err
	}

	return model.SwapEvent{
		PoolAddress: pool,
		Sender:      common.BytesToAddress(topics[1].Bytes()),
		Recipient:   common.BytesToAddress(topics[2].Bytes()),
		Amount0:     amount0,
		Amount1:     amount1,
	}, nil
}

// DecodeV2SyncData splits a V2 Sync event payload into the two reserve
// words (two 32-byte words).
func DecodeV2SyncData(data []byte) (reserve0, reserve1 *big.Int, err error) {
	if len(data) != 64 {
		return nil, nil, fmt.Errorf("%w: v2 sync data must be 64 bytes, got %d", model.ErrMalformedLog, len(data))
	}
	return new(big.Int).SetBytes(data[0:32]), new(big.Int).SetBytes(data[32:64]), nil
}
