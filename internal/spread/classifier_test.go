package spread

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"arbScope/internal/model"
)

func sample(num, den int64) model.PriceSample {
	return model.PriceSample{Num: big.NewInt(num), Den: big.NewInt(den)}
}

func TestSpreadSymmetry(t *testing.T) {
	a := sample(102, 50)
	b := sample(100, 50)

	ab, err := SpreadBps(a, b)
	if err != nil {
		t.Fatalf("spread a,b: %v", err)
	}
	ba, err := SpreadBps(b, a)
	if err != nil {
		t.Fatalf("spread b,a: %v", err)
	}
	if ab != ba {
		t.Fatalf("spread not symmetric: %d != %d", ab, ba)
	}
	if ab != 200 {
		t.Fatalf("spread mismatch: %d", ab)
	}
}

func TestSpreadZeroAtEquality(t *testing.T) {
	a := sample(12345, 6789)
	got, err := SpreadBps(a, a)
	if err != nil {
		t.Fatalf("spread: %v", err)
	}
	if got != 0 {
		t.Fatalf("spread at equality: %d", got)
	}

	// Equal values through different representations.
	b := sample(24690, 13578)
	got, err = SpreadBps(a, b)
	if err != nil {
		t.Fatalf("spread: %v", err)
	}
	if got != 0 {
		t.Fatalf("spread across equal rationals: %d", got)
	}
}

func TestSpreadCrossMultiplicationEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := sample(rng.Int63n(1<<40)+1, rng.Int63n(1<<40)+1)
		b := sample(rng.Int63n(1<<40)+1, rng.Int63n(1<<40)+1)

		got, err := SpreadBps(a, b)
		if err != nil {
			t.Fatalf("spread: %v", err)
		}

		pa := float64(a.Num.Int64()) / float64(a.Den.Int64())
		pb := float64(b.Num.Int64()) / float64(b.Den.Int64())
		want := math.Abs(pa-pb) / math.Min(pa, pb) * 10000

		// Integer division truncates, so the exact value lies in
		// [got, got+1); allow float rounding on top of that.
		if float64(got) > want*(1+1e-6)+1e-9 || float64(got)+1 < want*(1-1e-6)-1e-9 {
			t.Fatalf("iteration %d: integer spread %d vs float spread %f", i, got, want)
		}
	}
}

func TestSpreadRejectsNonPositive(t *testing.T) {
	if _, err := SpreadBps(sample(0, 1), sample(1, 1)); err == nil {
		t.Fatalf("expected error for zero price")
	}
	if _, err := SpreadBps(model.PriceSample{}, sample(1, 1)); err == nil {
		t.Fatalf("expected error for nil sample")
	}
}

func TestClassifyThresholdMonotonicity(t *testing.T) {
	th := DefaultThresholds()

	cases := []struct {
		spread uint64
		want   model.Status
	}{
		{0, model.StatusBelowPrefilter},
		{9, model.StatusBelowPrefilter},
		{10, model.StatusBelowFeeFloor}, // == prefilter passes the prefilter
		{59, model.StatusBelowFeeFloor},
		{60, model.StatusActionable}, // >= floor by default
		{61, model.StatusActionable},
		{198, model.StatusActionable},
	}
	for _, tc := range cases {
		if got := th.Classify(tc.spread, th.FeeFloorBps); got != tc.want {
			t.Fatalf("spread %d: %s != %s", tc.spread, got, tc.want)
		}
	}
}

func TestClassifyStrictFloor(t *testing.T) {
	th := DefaultThresholds()
	th.FeeFloorStrict = true

	if got := th.Classify(60, th.FeeFloorBps); got != model.StatusBelowFeeFloor {
		t.Fatalf("strict floor at boundary: %s", got)
	}
	if got := th.Classify(61, th.FeeFloorBps); got != model.StatusActionable {
		t.Fatalf("strict floor above boundary: %s", got)
	}
}

func TestDexFloorV3Override(t *testing.T) {
	th := DefaultThresholds()
	if got := th.DexFloor(model.ProtocolV2, model.ProtocolV3); got != th.FeeFloorBps {
		t.Fatalf("unconfigured v3 floor should fall back: %d", got)
	}

	th.V3FeeFloorBps = 45
	if got := th.DexFloor(model.ProtocolV2, model.ProtocolV3); got != 45 {
		t.Fatalf("v3 floor not applied: %d", got)
	}
	if got := th.DexFloor(model.ProtocolV2, model.ProtocolV2); got != th.FeeFloorBps {
		t.Fatalf("v2-only pair should keep the v2 floor: %d", got)
	}
}

func TestCexFreshness(t *testing.T) {
	th := DefaultThresholds()

	if !th.CexFresh(1678000000, 1678000003) {
		t.Fatalf("3s delta should be fresh")
	}
	if !th.CexFresh(1678000003, 1678000000) {
		t.Fatalf("freshness must be symmetric")
	}
	if th.CexFresh(1678000000, 1678000004) {
		t.Fatalf("4s delta should be stale")
	}
}
