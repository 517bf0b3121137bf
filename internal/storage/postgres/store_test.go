package postgres

import (
	"math"
	"testing"
)

func TestSpreadBpsColumn(t *testing.T) {
	if got := spreadBpsColumn(200); got != 200 {
		t.Fatalf("ordinary spread changed: %d", got)
	}
	if got := spreadBpsColumn(math.MaxInt64); got != math.MaxInt64 {
		t.Fatalf("boundary spread changed: %d", got)
	}
	if got := spreadBpsColumn(math.MaxUint64); got != math.MaxInt64 {
		t.Fatalf("saturated spread must clamp, got %d", got)
	}
	if got := spreadBpsColumn(math.MaxInt64 + 1); got != math.MaxInt64 {
		t.Fatalf("spread above int64 range must clamp, got %d", got)
	}
}
