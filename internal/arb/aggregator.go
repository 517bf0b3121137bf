package arb

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"arbScope/internal/model"
	"arbScope/internal/registry"
)

// Aggregator groups decoded swap events by transaction and emits ranked
// arbitrage candidates. Pure over its input; a fresh result slice is
// allocated per call.
type Aggregator struct {
	trackedPairs []registry.TrackedPair
	logger       *zap.Logger
}

// NewAggregator builds an aggregator for the tracked pairs.
func NewAggregator(trackedPairs []registry.TrackedPair, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{trackedPairs: trackedPairs, logger: logger}
}

type txGroup struct {
	txHash      common.Hash
	blockNumber uint64
	txIndex     uint64
	pools       map[common.Address]struct{}
}

// Aggregate groups swap events by transaction hash and classifies each
// transaction:
//
//   - CrossDex: swaps on two or more pools of one tracked pair.
//   - MultiDex: swaps on two or more distinct pools, tracked or not.
//
// A transaction matching both is reported once as CrossDex. Output is
// deduplicated per transaction and ordered ascending by
// (block_number, transaction_index).
func (a *Aggregator) Aggregate(events []model.SwapEventRecord) []model.ArbCandidate {
	groups := make(map[common.Hash]*txGroup)
	for _, event := range events {
		group := groups[event.TxHash]
		if group == nil {
			group = &txGroup{
				txHash:      event.TxHash,
				blockNumber: event.BlockNumber,
				txIndex:     event.TxIndex,
				pools:       make(map[common.Address]struct{}),
			}
			groups[event.TxHash] = group
		}
		group.pools[event.Swap.PoolAddress] = struct{}{}
	}

	candidates := make([]model.ArbCandidate, 0, len(groups))
	for _, group := range groups {
		if len(group.pools) < 2 {
			continue
		}

		kind := model.CandidateMultiDex
		if a.isCrossDex(group.pools) {
			kind = model.CandidateCrossDex
		}

		candidates = append(candidates, model.ArbCandidate{
			TxHash:      group.txHash,
			BlockNumber: group.blockNumber,
			TxIndex:     group.txIndex,
			Pools:       sortedPools(group.pools),
			Kind:        kind,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].BlockNumber != candidates[j].BlockNumber {
			return candidates[i].BlockNumber < candidates[j].BlockNumber
		}
		return candidates[i].TxIndex < candidates[j].TxIndex
	})

	a.logger.Debug("aggregated candidates",
		zap.Int("transactions", len(groups)),
		zap.Int("candidates", len(candidates)),
	)

	return candidates
}

// TrackedPairFor returns the first tracked pair with two or more venues
// among the given pools, for spread enrichment of CrossDex candidates.
func (a *Aggregator) TrackedPairFor(pools []common.Address) (registry.TrackedPair, bool) {
	set := make(map[common.Address]struct{}, len(pools))
	for _, pool := range pools {
		set[pool] = struct{}{}
	}
	for _, pair := range a.trackedPairs {
		if countMembers(pair, set) >= 2 {
			return pair, true
		}
	}
	return registry.TrackedPair{}, false
}

func (a *Aggregator) isCrossDex(pools map[common.Address]struct{}) bool {
	for _, pair := range a.trackedPairs {
		if countMembers(pair, pools) >= 2 {
			return true
		}
	}
	return false
}

func countMembers(pair registry.TrackedPair, pools map[common.Address]struct{}) int {
	count := 0
	for _, venue := range pair.Pools {
		if _, ok := pools[venue]; ok {
			count++
		}
	}
	return count
}

func sortedPools(pools map[common.Address]struct{}) []common.Address {
	out := make([]common.Address, 0, len(pools))
	for pool := range pools {
		out = append(out, pool)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Bytes(), out[j].Bytes()) < 0
	})
	return out
}
