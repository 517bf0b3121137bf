package detect

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"arbScope/internal/cex"
	"arbScope/internal/model"
	"arbScope/internal/registry"
	"arbScope/internal/spread"
)

var (
	usdc = model.Token{Address: common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"), Decimals: 6, Symbol: "USDC"}
	weth = model.Token{Address: common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"), Decimals: 18, Symbol: "WETH"}

	uniPool   = common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")
	sushiPool = common.HexToAddress("0x397FF1542f962076d0BFE58eA045FfA2d347ACa0")
)

func v2Pool(address common.Address, reserve0, reserve1 *big.Int) model.Pool {
	return model.Pool{
		Address:  address,
		Protocol: model.ProtocolV2,
		Token0:   usdc,
		Token1:   weth,
		Reserve0: reserve0,
		Reserve1: reserve1,
	}
}

func weth500() *big.Int {
	return new(big.Int).Mul(big.NewInt(500), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func trackedPair() []registry.TrackedPair {
	return []registry.TrackedPair{{Name: "WETH/USDC", Pools: []common.Address{uniPool, sushiPool}}}
}

func TestEvaluateEqualReserves(t *testing.T) {
	// Identical reserves on both venues: zero spread, below prefilter.
	eval := NewEvaluator(spread.DefaultThresholds(), nil)

	pools := []model.Pool{
		v2Pool(uniPool, big.NewInt(1_000_000_000000), weth500()),
		v2Pool(sushiPool, big.NewInt(1_000_000_000000), weth500()),
	}

	results := eval.Evaluate(16817000, 1678000000, pools, trackedPair(), nil)
	if len(results) != 1 {
		t.Fatalf("expected one classification, got %d", len(results))
	}
	if results[0].SpreadBps != 0 {
		t.Fatalf("spread should be zero: %d", results[0].SpreadBps)
	}
	if results[0].Status != model.StatusBelowPrefilter {
		t.Fatalf("expected BelowPrefilter, got %s", results[0].Status)
	}
}

func TestEvaluateActionableSpread(t *testing.T) {
	// 2040 vs 2000 USDC/WETH: 40/2000 = 200 bps over the fee floor.
	eval := NewEvaluator(spread.DefaultThresholds(), nil)

	pools := []model.Pool{
		v2Pool(uniPool, big.NewInt(1_020_000_000000), weth500()),
		v2Pool(sushiPool, big.NewInt(1_000_000_000000), weth500()),
	}

	results := eval.Evaluate(16817001, 1678000000, pools, trackedPair(), nil)
	if len(results) != 1 {
		t.Fatalf("expected one classification, got %d", len(results))
	}
	if results[0].SpreadBps != 200 {
		t.Fatalf("spread mismatch: %d", results[0].SpreadBps)
	}
	if results[0].Status != model.StatusActionable {
		t.Fatalf("expected Actionable, got %s", results[0].Status)
	}
}

func TestEvaluateIlliquidPool(t *testing.T) {
	eval := NewEvaluator(spread.DefaultThresholds(), nil)

	pools := []model.Pool{
		v2Pool(uniPool, big.NewInt(1_000_000_000000), big.NewInt(0)),
		v2Pool(sushiPool, big.NewInt(1_000_000_000000), weth500()),
	}

	results := eval.Evaluate(16817002, 1678000000, pools, trackedPair(), nil)
	if len(results) != 1 {
		t.Fatalf("expected one classification, got %d", len(results))
	}
	if results[0].Status != model.StatusRejectedIlliquid {
		t.Fatalf("expected Rejected(IlliquidPool), got %s", results[0].Status)
	}
	if !results[0].Status.Rejected() {
		t.Fatalf("illiquid rejection must read as a data problem")
	}
}

func TestEvaluateCexStaleness(t *testing.T) {
	eval := NewEvaluator(spread.DefaultThresholds(), nil)
	pool := v2Pool(uniPool, big.NewInt(1_000_000_000000), weth500())

	scaled, err := cex.ParsePriceScaled("2000")
	if err != nil {
		t.Fatalf("parse cex price: %v", err)
	}
	point := cex.Point{Timestamp: 1678000010, PriceScaled: scaled}

	// 10s past the 3s window: rejected, no numeric spread.
	stale := eval.EvaluateCex(16817003, 1678000000, pool, CexSample{Sample: point.Sample(), Timestamp: point.Timestamp})
	if stale.Status != model.StatusRejectedStale {
		t.Fatalf("expected Rejected(StaleCexData), got %s", stale.Status)
	}
	if stale.SpreadBps != 0 {
		t.Fatalf("stale comparison must not produce a spread: %d", stale.SpreadBps)
	}

	// Same sample inside the window: zero spread against 2000.
	fresh := eval.EvaluateCex(16817003, 1678000008, pool, CexSample{Sample: point.Sample(), Timestamp: point.Timestamp})
	if fresh.Status != model.StatusBelowPrefilter {
		t.Fatalf("expected BelowPrefilter, got %s", fresh.Status)
	}
	if fresh.SpreadBps != 0 {
		t.Fatalf("spread mismatch: %d", fresh.SpreadBps)
	}
}

func TestEvaluateCexThreshold(t *testing.T) {
	// 2008 vs 2000: 40 bps, over the 30 bps CEX floor but under the
	// 60 bps DEX floor.
	eval := NewEvaluator(spread.DefaultThresholds(), nil)
	pool := v2Pool(uniPool, big.NewInt(1_004_000_000000), weth500())

	scaled, err := cex.ParsePriceScaled("2000")
	if err != nil {
		t.Fatalf("parse cex price: %v", err)
	}
	point := cex.Point{Timestamp: 1678000000, PriceScaled: scaled}

	result := eval.EvaluateCex(16817004, 1678000000, pool, CexSample{Sample: point.Sample(), Timestamp: point.Timestamp})
	if result.SpreadBps != 40 {
		t.Fatalf("spread mismatch: %d", result.SpreadBps)
	}
	if result.Status != model.StatusActionable {
		t.Fatalf("expected Actionable at 40 bps vs cex floor, got %s", result.Status)
	}
	if !result.CexDex {
		t.Fatalf("classification must be marked cex-dex")
	}
}

func TestEvaluateSkipsMissingVenues(t *testing.T) {
	eval := NewEvaluator(spread.DefaultThresholds(), nil)

	pools := []model.Pool{v2Pool(uniPool, big.NewInt(1_000_000_000000), weth500())}
	if results := eval.Evaluate(16817005, 1678000000, pools, trackedPair(), nil); len(results) != 0 {
		t.Fatalf("pair with a missing venue must be skipped: %+v", results)
	}
}
