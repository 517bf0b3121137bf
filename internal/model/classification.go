package model

import "github.com/ethereum/go-ethereum/common"

// Status is the terminal state of one evaluated pair. States are
// mutually exclusive; an evaluation reaches exactly one.
type Status string

const (
	StatusRejectedIlliquid Status = "Rejected(IlliquidPool)"
	StatusRejectedStale    Status = "Rejected(StaleCexData)"
	StatusBelowPrefilter   Status = "BelowPrefilter"
	StatusBelowFeeFloor    Status = "BelowFeeFloor"
	StatusActionable       Status = "Actionable"
)

// Rejected reports whether the status is a data-problem terminal state
// rather than a genuine "no opportunity" result.
func (s Status) Rejected() bool {
	return s == StatusRejectedIlliquid || s == StatusRejectedStale
}

// Classification is the outcome of evaluating one pair at one block.
// SpreadBps is only meaningful when the status is not a rejection.
type Classification struct {
	BlockNumber uint64         `json:"block_number"`
	PoolA       common.Address `json:"pool_a"`
	PoolB       common.Address `json:"pool_b,omitempty"`
	CexDex      bool           `json:"cex_dex,omitempty"`
	SpreadBps   uint64         `json:"spread_bps"`
	Status      Status         `json:"status"`
	PriceA      string         `json:"price_a,omitempty"`
	PriceB      string         `json:"price_b,omitempty"`
}
