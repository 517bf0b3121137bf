package spread

import (
	"fmt"
	"math"
	"math/big"

	"arbScope/internal/model"
)

var bps10000 = big.NewInt(10000)

// Thresholds gates spread classification. All values are configuration;
// zero values fall back to the defaults below.
type Thresholds struct {
	// PrefilterBps is the cheap-reject floor: spreads strictly below it
	// are ignored outright.
	PrefilterBps uint64
	// FeeFloorBps is the minimum spread plausibly covering round-trip AMM
	// fees (0.30% x 2 legs).
	FeeFloorBps uint64
	// CexDexThresholdBps replaces the fee floor for CEX-vs-DEX
	// comparisons, where only one AMM fee is paid.
	CexDexThresholdBps uint64
	// V3FeeFloorBps, when nonzero, replaces FeeFloorBps for comparisons
	// involving a V3 pool.
	V3FeeFloorBps uint64
	// MaxStalenessSeconds bounds |cex_ts - block_ts| for CEX samples.
	MaxStalenessSeconds uint64
	// FeeFloorStrict switches the floor comparison from >= to >.
	FeeFloorStrict bool
}

// DefaultThresholds returns the standard configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PrefilterBps:        10,
		FeeFloorBps:         60,
		CexDexThresholdBps:  30,
		MaxStalenessSeconds: 3,
	}
}

// SpreadBps computes |a-b| / min(a,b) * 10000 over two price samples
// using integer cross-multiplication only:
//
//	cross1 = a.num * b.den
//	cross2 = b.num * a.den
//	spread = |cross1 - cross2| * 10000 / min(cross1, cross2)
//
// Results saturate at MaxUint64. Zero or negative samples are the
// caller's responsibility to reject first; they error here.
func SpreadBps(a, b model.PriceSample) (uint64, error) {
	if a.Num == nil || a.Den == nil || b.Num == nil || b.Den == nil {
		return 0, fmt.Errorf("nil price sample")
	}

	cross1 := new(big.Int).Mul(a.Num, b.Den)
	cross2 := new(big.Int).Mul(b.Num, a.Den)
	if cross1.Sign() <= 0 || cross2.Sign() <= 0 {
		return 0, fmt.Errorf("%w: non-positive price in spread comparison", model.ErrIlliquidPool)
	}

	diff := new(big.Int).Sub(cross1, cross2)
	diff.Abs(diff)

	min := cross1
	if cross2.Cmp(cross1) < 0 {
		min = cross2
	}

	diff.Mul(diff, bps10000)
	diff.Quo(diff, min)

	if !diff.IsUint64() {
		return math.MaxUint64, nil
	}
	return diff.Uint64(), nil
}

// Classify maps a spread against a floor into a terminal state. The
// prefilter comparison is strict-below; the floor comparison is >= by
// default and > when FeeFloorStrict is set.
func (t Thresholds) Classify(spreadBps, floorBps uint64) model.Status {
	if spreadBps < t.PrefilterBps {
		return model.StatusBelowPrefilter
	}
	if t.FeeFloorStrict {
		if spreadBps > floorBps {
			return model.StatusActionable
		}
	} else if spreadBps >= floorBps {
		return model.StatusActionable
	}
	return model.StatusBelowFeeFloor
}

// DexFloor picks the fee floor for a DEX-DEX comparison: the V3 floor
// applies when configured and either pool is V3.
func (t Thresholds) DexFloor(a, b model.Protocol) uint64 {
	if t.V3FeeFloorBps != 0 && (a == model.ProtocolV3 || b == model.ProtocolV3) {
		return t.V3FeeFloorBps
	}
	return t.FeeFloorBps
}

// CexFresh reports whether a CEX sample timestamp is close enough to the
// block timestamp to be comparable.
func (t Thresholds) CexFresh(blockTs, cexTs uint64) bool {
	var delta uint64
	if blockTs >= cexTs {
		delta = blockTs - cexTs
	} else {
		delta = cexTs - blockTs
	}
	return delta <= t.MaxStalenessSeconds
}
