package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Protocol identifies the AMM design of a pool.
type Protocol string

const (
	ProtocolV2 Protocol = "V2"
	ProtocolV3 Protocol = "V3"
)

// Pool is a snapshot of an AMM pool at a specific block. Token0 and
// Token1 are ordered by address (token0 < token1), matching the on-chain
// convention; the registry enforces the ordering at construction.
//
// For V2 pools Reserve0/Reserve1 (uint112 on-chain) and
// BlockTimestampLast are set. For V3 pools SqrtPriceX96 (uint160, Q64.96)
// and Tick are set; the tick is carried for traceability but is not
// needed for price derivation.
type Pool struct {
	Address  common.Address `json:"address"`
	Protocol Protocol       `json:"protocol"`
	Token0   Token          `json:"token0"`
	Token1   Token          `json:"token1"`

	Reserve0           *big.Int `json:"reserve0,omitempty"`
	Reserve1           *big.Int `json:"reserve1,omitempty"`
	BlockTimestampLast uint32   `json:"block_timestamp_last,omitempty"`

	SqrtPriceX96 *big.Int `json:"sqrt_price_x96,omitempty"`
	Tick         int32    `json:"tick,omitempty"`
}
