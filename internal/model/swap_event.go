package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SwapEvent is a decoded Swap log with signed amounts per the V2 sign
// convention: positive values are pool inputs, negative values are pool
// outputs. For a given token at most one of the in/out fields of the raw
// event is nonzero.
type SwapEvent struct {
	PoolAddress common.Address `json:"pool_address"`
	Sender      common.Address `json:"sender"`
	Recipient   common.Address `json:"recipient"`
	Amount0     *big.Int       `json:"amount0"`
	Amount1     *big.Int       `json:"amount1"`
}

// SwapEventRecord pairs a decoded swap with its transaction context so
// the aggregator can group and order candidates deterministically.
type SwapEventRecord struct {
	Swap        SwapEvent   `json:"swap"`
	TxHash      common.Hash `json:"tx_hash"`
	BlockNumber uint64      `json:"block_number"`
	TxIndex     uint64      `json:"tx_index"`
	LogIndex    uint64      `json:"log_index"`
}
