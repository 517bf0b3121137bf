package dex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"arbScope/internal/model"
)

func decodeV3SwapLog(pool common.Address, topics []common.Hash, data []byte) (model.SwapEvent, error) {
	// topic0 + indexed sender + indexed recipient
	if len(topics) != 3 {
		return model.SwapEvent{}, fmt.Errorf("%w: v3 swap expects 3 topics, got %d", model.ErrMalformedLog, len(topics))
	}

	poolABI, err := V3PoolABI()
	if err != nil {
		return model.SwapEvent{}, fmt.Errorf("parse pool abi: %w", err)
	}

	values, err := poolABI.Events["Swap"].Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return model.SwapEvent{}, fmt.Errorf("%w: unpack v3 swap: %v", model.ErrMalformedLog, err)
	}
	if len(values) != 5 {
		return model.SwapEvent{}, fmt.Errorf("%w: unexpected v3 swap values: %d", model.ErrMalformedLog, len(values))
	}

	amount0, err := asBigInt(values[0])
	if err != nil {
		return model.SwapEvent{}, fmt.Errorf("%w: amount0: %v", model.ErrMalformedLog, err)
	}
	amount1, err := asBigInt(values[1])
	if err != nil {
		return model.SwapEvent{}, fmt.Errorf("%w: amount1: %v", model.ErrMalformedLog, err)
	}

	return model.SwapEvent{
		PoolAddress: pool,
		Sender:      common.BytesToAddress(topics[1].Bytes()),
		Recipient:   common.BytesToAddress(topics[2].Bytes()),
		Amount0:     amount0,
		Amount1:     amount1,
	}, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
