package models

import (
	"testing"
	"time"
)

func TestBarKey_Less(t *testing.T) {
	t0 := time.Date(2025, 11, 17, 9, 30, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	cases := []struct {
		name string
		a, b BarKey
		want bool
	}{
		{"earlier timestamp", BarKey{t0, "MSFT"}, BarKey{t1, "AAPL"}, true},
		{"later timestamp", BarKey{t1, "AAPL"}, BarKey{t0, "MSFT"}, false},
		{"same time symbol order", BarKey{t0, "AAPL"}, BarKey{t0, "MSFT"}, true},
		{"equal", BarKey{t0, "AAPL"}, BarKey{t0, "AAPL"}, false},
		{"same instant other zone", BarKey{t0.In(time.FixedZone("X", 3600)), "AAPL"}, BarKey{t0, "MSFT"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Less(tc.b); got != tc.want {
				t.Fatalf("Less=%v want %v", got, tc.want)
			}
		})
	}
}

func TestComparison_Speedup(t *testing.T) {
	c := Comparison{RelationalLatency: 30 * time.Millisecond, ColumnarLatency: 10 * time.Millisecond}
	if got := c.Speedup(); got != 3 {
		t.Fatalf("Speedup=%v", got)
	}
	if (Comparison{}).Speedup() != 0 {
		t.Fatalf("expected 0 speedup without measurement")
	}
}
