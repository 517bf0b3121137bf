package arb

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"arbScope/internal/model"
	"arbScope/internal/registry"
)

var (
	uniPool   = common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")
	sushiPool = common.HexToAddress("0x397FF1542f962076d0BFE58eA045FfA2d347ACa0")
	otherPool = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func trackedPairs() []registry.TrackedPair {
	return []registry.TrackedPair{{Name: "WETH/USDC", Pools: []common.Address{uniPool, sushiPool}}}
}

func swapOn(pool common.Address, txHash byte, block, txIdx uint64) model.SwapEventRecord {
	return model.SwapEventRecord{
		Swap: model.SwapEvent{
			PoolAddress: pool,
			Amount0:     big.NewInt(1000),
			Amount1:     big.NewInt(-500),
		},
		TxHash:      common.Hash{txHash},
		BlockNumber: block,
		TxIndex:     txIdx,
	}
}

func TestAggregateCrossDex(t *testing.T) {
	agg := NewAggregator(trackedPairs(), nil)

	events := []model.SwapEventRecord{
		swapOn(uniPool, 0xaa, 16817010, 3),
		swapOn(sushiPool, 0xaa, 16817010, 3),
	}

	candidates := agg.Aggregate(events)
	if len(candidates) != 1 {
		t.Fatalf("expected exactly one candidate, got %d", len(candidates))
	}
	if candidates[0].Kind != model.CandidateCrossDex {
		t.Fatalf("expected CrossDex, got %s", candidates[0].Kind)
	}
	if len(candidates[0].Pools) != 2 {
		t.Fatalf("pools mismatch: %+v", candidates[0].Pools)
	}
}

func TestAggregateMultiDexNotCrossDex(t *testing.T) {
	agg := NewAggregator(trackedPairs(), nil)

	// One tracked venue plus an untracked pool: MultiDex only.
	events := []model.SwapEventRecord{
		swapOn(uniPool, 0xbb, 16817011, 5),
		swapOn(otherPool, 0xbb, 16817011, 5),
	}

	candidates := agg.Aggregate(events)
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}
	if candidates[0].Kind != model.CandidateMultiDex {
		t.Fatalf("expected MultiDex, got %s", candidates[0].Kind)
	}
}

func TestAggregateSinglePoolIgnored(t *testing.T) {
	agg := NewAggregator(trackedPairs(), nil)

	events := []model.SwapEventRecord{
		swapOn(uniPool, 0xcc, 16817012, 1),
		swapOn(uniPool, 0xcc, 16817012, 1), // second swap on the same pool
	}

	if candidates := agg.Aggregate(events); len(candidates) != 0 {
		t.Fatalf("single-pool transaction must not be a candidate: %+v", candidates)
	}
}

func TestAggregateDeduplicatesAndPrefersCrossDex(t *testing.T) {
	agg := NewAggregator(trackedPairs(), nil)

	// Both tracked venues plus an untracked pool in one transaction:
	// matches both rules, reported once as CrossDex.
	events := []model.SwapEventRecord{
		swapOn(uniPool, 0xdd, 16817013, 2),
		swapOn(sushiPool, 0xdd, 16817013, 2),
		swapOn(otherPool, 0xdd, 16817013, 2),
	}

	candidates := agg.Aggregate(events)
	if len(candidates) != 1 {
		t.Fatalf("expected one deduplicated candidate, got %d", len(candidates))
	}
	if candidates[0].Kind != model.CandidateCrossDex {
		t.Fatalf("more specific classification must win: %s", candidates[0].Kind)
	}
	if len(candidates[0].Pools) != 3 {
		t.Fatalf("all touched pools must be reported: %+v", candidates[0].Pools)
	}
}

func TestAggregateOrdering(t *testing.T) {
	agg := NewAggregator(trackedPairs(), nil)

	events := []model.SwapEventRecord{
		swapOn(uniPool, 0x03, 16817020, 9),
		swapOn(sushiPool, 0x03, 16817020, 9),
		swapOn(uniPool, 0x01, 16817019, 4),
		swapOn(sushiPool, 0x01, 16817019, 4),
		swapOn(uniPool, 0x02, 16817020, 1),
		swapOn(sushiPool, 0x02, 16817020, 1),
	}

	candidates := agg.Aggregate(events)
	if len(candidates) != 3 {
		t.Fatalf("expected three candidates, got %d", len(candidates))
	}

	wantOrder := []struct {
		block uint64
		txIdx uint64
	}{
		{16817019, 4},
		{16817020, 1},
		{16817020, 9},
	}
	for i, want := range wantOrder {
		if candidates[i].BlockNumber != want.block || candidates[i].TxIndex != want.txIdx {
			t.Fatalf("candidate %d out of order: block=%d txIdx=%d", i, candidates[i].BlockNumber, candidates[i].TxIndex)
		}
	}
}

func TestTrackedPairFor(t *testing.T) {
	agg := NewAggregator(trackedPairs(), nil)

	pair, ok := agg.TrackedPairFor([]common.Address{uniPool, sushiPool, otherPool})
	if !ok || pair.Name != "WETH/USDC" {
		t.Fatalf("tracked pair lookup failed: %+v ok=%v", pair, ok)
	}

	if _, ok := agg.TrackedPairFor([]common.Address{uniPool, otherPool}); ok {
		t.Fatalf("one venue must not resolve a tracked pair")
	}
}
