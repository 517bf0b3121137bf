package scan

import "testing"

func TestSplitRange(t *testing.T) {
	cases := []struct {
		name      string
		from      uint64
		to        uint64
		batchSize uint64
		want      []BlockRange
	}{
		{
			name:      "single batch",
			from:      100,
			to:        150,
			batchSize: 100,
			want:      []BlockRange{{From: 100, To: 150}},
		},
		{
			name:      "exact batches",
			from:      0,
			to:        199,
			batchSize: 100,
			want:      []BlockRange{{From: 0, To: 99}, {From: 100, To: 199}},
		},
		{
			name:      "trailing partial batch",
			from:      10,
			to:        35,
			batchSize: 10,
			want:      []BlockRange{{From: 10, To: 19}, {From: 20, To: 29}, {From: 30, To: 35}},
		},
		{
			name:      "single block",
			from:      42,
			to:        42,
			batchSize: 10,
			want:      []BlockRange{{From: 42, To: 42}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SplitRange(tc.from, tc.to, tc.batchSize)
			if err != nil {
				t.Fatalf("SplitRange returned error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d ranges, want %d: %v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("range %d: got %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestSplitRangeRejectsBadInput(t *testing.T) {
	if _, err := SplitRange(10, 5, 100); err == nil {
		t.Fatal("expected error for to < from")
	}
	if _, err := SplitRange(0, 10, 0); err == nil {
		t.Fatal("expected error for zero batch size")
	}
}
