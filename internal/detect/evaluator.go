package detect

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"arbScope/internal/model"
	"arbScope/internal/price"
	"arbScope/internal/registry"
	"arbScope/internal/spread"
)

// CexSample is an off-chain reference price with its observation time.
type CexSample struct {
	Sample    model.PriceSample
	Timestamp uint64
}

// Evaluator runs the price engine and spread classifier over configured
// pairs. Stateless after construction; safe for concurrent use.
type Evaluator struct {
	thresholds spread.Thresholds
	logger     *zap.Logger
}

// NewEvaluator builds an evaluator with the given thresholds.
func NewEvaluator(thresholds spread.Thresholds, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{thresholds: thresholds, logger: logger}
}

// Evaluate produces one classification per tracked pair whose venues are
// both present in pools, plus one CEX-DEX classification per present
// pool when a CEX sample is supplied. The pool snapshots must carry
// pre-state (the block before the one under analysis); blockTs is the
// timestamp of that pre-state block.
func (e *Evaluator) Evaluate(blockNumber, blockTs uint64, pools []model.Pool, trackedPairs []registry.TrackedPair, cex *CexSample) []model.Classification {
	byAddress := make(map[common.Address]model.Pool, len(pools))
	for _, pool := range pools {
		byAddress[pool.Address] = pool
	}

	var out []model.Classification
	for _, pair := range trackedPairs {
		for i := 0; i < len(pair.Pools); i++ {
			for j := i + 1; j < len(pair.Pools); j++ {
				poolA, okA := byAddress[pair.Pools[i]]
				poolB, okB := byAddress[pair.Pools[j]]
				if !okA || !okB {
					continue
				}
				out = append(out, e.EvaluatePair(blockNumber, poolA, poolB))
			}
		}
	}

	if cex != nil {
		for _, pool := range pools {
			out = append(out, e.EvaluateCex(blockNumber, blockTs, pool, *cex))
		}
	}

	return out
}

// EvaluatePair classifies a DEX-DEX comparison. The state machine
// terminates in exactly one of Rejected(IlliquidPool), BelowPrefilter,
// BelowFeeFloor, or Actionable.
func (e *Evaluator) EvaluatePair(blockNumber uint64, poolA, poolB model.Pool) model.Classification {
	result := model.Classification{
		BlockNumber: blockNumber,
		PoolA:       poolA.Address,
		PoolB:       poolB.Address,
	}

	sampleA, err := price.PriceOf(poolA)
	if err != nil {
		return e.rejected(result, err)
	}
	sampleB, err := price.PriceOf(poolB)
	if err != nil {
		return e.rejected(result, err)
	}

	spreadBps, err := spread.SpreadBps(sampleA, sampleB)
	if err != nil {
		return e.rejected(result, err)
	}

	result.SpreadBps = spreadBps
	result.Status = e.thresholds.Classify(spreadBps, e.thresholds.DexFloor(poolA.Protocol, poolB.Protocol))
	result.PriceA = sampleA.Display(8)
	result.PriceB = sampleB.Display(8)
	return result
}

// EvaluateCex classifies a pool against an off-chain reference price.
// A sample outside the staleness window terminates in
// Rejected(StaleCexData) and never produces a numeric spread.
func (e *Evaluator) EvaluateCex(blockNumber, blockTs uint64, pool model.Pool, cex CexSample) model.Classification {
	result := model.Classification{
		BlockNumber: blockNumber,
		PoolA:       pool.Address,
		CexDex:      true,
	}

	if !e.thresholds.CexFresh(blockTs, cex.Timestamp) {
		result.Status = model.StatusRejectedStale
		return result
	}

	sample, err := price.PriceOf(pool)
	if err != nil {
		return e.rejected(result, err)
	}

	spreadBps, err := spread.SpreadBps(sample, cex.Sample)
	if err != nil {
		return e.rejected(result, err)
	}

	result.SpreadBps = spreadBps
	result.Status = e.thresholds.Classify(spreadBps, e.thresholds.CexDexThresholdBps)
	result.PriceA = sample.Display(8)
	result.PriceB = cex.Sample.Display(8)
	return result
}

func (e *Evaluator) rejected(result model.Classification, err error) model.Classification {
	switch {
	case errors.Is(err, model.ErrIlliquidPool):
		result.Status = model.StatusRejectedIlliquid
	case errors.Is(err, model.ErrStaleCexData):
		result.Status = model.StatusRejectedStale
	default:
		// Price/spread errors outside the taxonomy still mean the pair is
		// not comparable this block.
		result.Status = model.StatusRejectedIlliquid
	}
	e.logger.Debug("pair rejected",
		zap.Uint64("block", result.BlockNumber),
		zap.String("pool_a", result.PoolA.Hex()),
		zap.String("pool_b", result.PoolB.Hex()),
		zap.Error(err),
	)
	return result
}
