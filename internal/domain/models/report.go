package models

import "time"

// DailyVolume is the average of the per-day summed volume of one symbol.
type DailyVolume struct {
	Symbol             string  `json:"symbol" example:"AAPL"`
	AverageDailyVolume float64 `json:"average_daily_volume" example:"1250000"`
}

// PeriodReturn is the whole-period return of one symbol, from the open of its
// first bar to the close of its last bar. PercentageReturn is nil when the
// first open is zero.
type PeriodReturn struct {
	Symbol           string   `json:"symbol" example:"NVDA"`
	FirstPrice       float64  `json:"first_price" example:"180.10"`
	LastPrice        float64  `json:"last_price" example:"185.42"`
	PercentageReturn *float64 `json:"percentage_return" example:"2.95"`
}

// DailyFirstLast holds the first open and last close of one symbol on one day.
type DailyFirstLast struct {
	Symbol     string  `json:"symbol" example:"MSFT"`
	TradeDate  string  `json:"trade_date" example:"2025-11-17"`
	FirstPrice float64 `json:"first_price" example:"184.21"`
	LastPrice  float64 `json:"last_price" example:"183.95"`
}

// RollingPoint is one row of a rolling-window series. Valid is false while the
// window is not yet full.
type RollingPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Symbol    string    `json:"symbol"`
	Value     float64   `json:"value"`
	Rolling   float64   `json:"rolling"`
	Valid     bool      `json:"valid"`
}

// Comparison summarizes storage footprint and single-symbol read latency of
// the relational and columnar backends.
type Comparison struct {
	Symbol            string        `json:"symbol"`
	Runs              int           `json:"runs"`
	RelationalBytes   int64         `json:"relational_bytes"`
	ColumnarBytes     int64         `json:"columnar_bytes"`
	RelationalLatency time.Duration `json:"relational_latency_ns"`
	ColumnarLatency   time.Duration `json:"columnar_latency_ns"`
	RelationalRows    int           `json:"relational_rows"`
	ColumnarRows      int           `json:"columnar_rows"`
}

// Speedup returns how many times faster the columnar read was. Zero when the
// columnar latency was not measured.
func (c Comparison) Speedup() float64 {
	if c.ColumnarLatency <= 0 {
		return 0
	}
	return float64(c.RelationalLatency) / float64(c.ColumnarLatency)
}
