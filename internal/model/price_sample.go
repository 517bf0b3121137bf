package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PriceSample is the exact rational price of token1 in token0 units,
// decimal-adjusted. Num and Den stay as integers until a spread
// comparison; comparisons between two samples always use integer
// cross-multiplication (a/b vs c/d <=> a*d vs c*b), never floating
// point division.
type PriceSample struct {
	PoolAddress common.Address
	Num         *big.Int
	Den         *big.Int
}

// Display renders the price as a decimal string for human output.
// This is the only place a non-integer representation is allowed.
func (s PriceSample) Display(places int) string {
	if s.Num == nil || s.Den == nil || s.Den.Sign() == 0 {
		return "0"
	}
	return new(big.Rat).SetFrac(s.Num, s.Den).FloatString(places)
}
