package dto

import (
	"time"

	"github.com/guttosm/barstore/internal/domain/models"
)

// PricesResponse is returned by GET /api/v1/prices.
type PricesResponse struct {
	Symbol string       `json:"symbol" example:"TSLA"`
	From   string       `json:"from" example:"2025-11-17"`
	To     string       `json:"to" example:"2025-11-18"`
	Count  int          `json:"count" example:"780"`
	Bars   []models.Bar `json:"bars"`
}

// DailyVolumeResponse is returned by GET /api/v1/volume/daily-average.
type DailyVolumeResponse struct {
	Items []models.DailyVolume `json:"items"`
}

// TopReturnsResponse is returned by GET /api/v1/returns/top.
type TopReturnsResponse struct {
	N     int                   `json:"n" example:"3"`
	Items []models.PeriodReturn `json:"items"`
}

// DailyFirstLastResponse is returned by GET /api/v1/prices/daily-first-last.
type DailyFirstLastResponse struct {
	Items []models.DailyFirstLast `json:"items"`
}

// RollingPoint is a rolling-window value; Rolling is null until the window fills.
type RollingPoint struct {
	Timestamp time.Time `json:"timestamp" example:"2025-11-17T09:34:00Z"`
	Symbol    string    `json:"symbol" example:"AAPL"`
	Value     float64   `json:"value" example:"270.88"`
	Rolling   *float64  `json:"rolling" example:"271.02"`
}

// RollingResponse is returned by the columnar rolling endpoints.
type RollingResponse struct {
	Window int            `json:"window" example:"5"`
	Points []RollingPoint `json:"points"`
}

// NewRollingResponse converts model points, nulling the rolling value of
// points whose window is not full.
func NewRollingResponse(window int, pts []models.RollingPoint) RollingResponse {
	out := RollingResponse{Window: window, Points: make([]RollingPoint, len(pts))}
	for i, p := range pts {
		rp := RollingPoint{Timestamp: p.Timestamp, Symbol: p.Symbol, Value: p.Value}
		if p.Valid {
			v := p.Rolling
			rp.Rolling = &v
		}
		out.Points[i] = rp
	}
	return out
}

// CompareResponse is returned by GET /api/v1/compare.
type CompareResponse struct {
	Symbol          string  `json:"symbol" example:"TSLA"`
	Runs            int     `json:"runs" example:"10"`
	RelationalBytes int64   `json:"relational_bytes" example:"1843200"`
	ColumnarBytes   int64   `json:"columnar_bytes" example:"412311"`
	RelationalAvgMs float64 `json:"relational_avg_ms" example:"4.21"`
	ColumnarAvgMs   float64 `json:"columnar_avg_ms" example:"1.37"`
	Speedup         float64 `json:"speedup" example:"3.07"`
}

// NewCompareResponse flattens a comparison for JSON output.
func NewCompareResponse(c models.Comparison) CompareResponse {
	return CompareResponse{
		Symbol:          c.Symbol,
		Runs:            c.Runs,
		RelationalBytes: c.RelationalBytes,
		ColumnarBytes:   c.ColumnarBytes,
		RelationalAvgMs: float64(c.RelationalLatency) / float64(time.Millisecond),
		ColumnarAvgMs:   float64(c.ColumnarLatency) / float64(time.Millisecond),
		Speedup:         c.Speedup(),
	}
}
