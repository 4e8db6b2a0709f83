package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/barstore/internal/domain/models"
)

func TestNewRollingResponse_NullsPartialWindows(t *testing.T) {
	ts := time.Date(2025, 11, 17, 9, 30, 0, 0, time.UTC)
	resp := NewRollingResponse(2, []models.RollingPoint{
		{Timestamp: ts, Symbol: "AAPL", Value: 1},
		{Timestamp: ts.Add(time.Minute), Symbol: "AAPL", Value: 3, Rolling: 2, Valid: true},
	})
	if resp.Points[0].Rolling != nil {
		t.Fatalf("partial window must be null")
	}
	if resp.Points[1].Rolling == nil || *resp.Points[1].Rolling != 2 {
		t.Fatalf("unexpected rolling %+v", resp.Points[1])
	}

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"rolling":null`) {
		t.Fatalf("expected null rolling in %s", b)
	}
}

func TestNewCompareResponse(t *testing.T) {
	resp := NewCompareResponse(models.Comparison{
		Symbol:            "TSLA",
		Runs:              10,
		RelationalLatency: 3 * time.Millisecond,
		ColumnarLatency:   1500 * time.Microsecond,
	})
	if resp.RelationalAvgMs != 3 || resp.ColumnarAvgMs != 1.5 || resp.Speedup != 2 {
		t.Fatalf("unexpected %+v", resp)
	}
}
