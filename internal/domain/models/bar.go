package models

import "time"

// Bar represents one OHLCV record for one symbol at one instant.
//
// Fields:
//   - Timestamp: bar open instant, always in UTC.
//   - Symbol: ticker symbol (e.g., "AAPL").
//   - Open, High, Low, Close: prices for the interval. Non-negative values are
//     expected but not enforced.
//   - Volume: traded quantity for the interval.
//
// A bar is uniquely identified by (Timestamp, Symbol).
type Bar struct {
	Timestamp time.Time `json:"timestamp" example:"2025-11-17T09:30:00Z"`
	Symbol    string    `json:"symbol" example:"AAPL"`
	Open      float64   `json:"open" example:"271.45"`
	High      float64   `json:"high" example:"272.07"`
	Low       float64   `json:"low" example:"270.77"`
	Close     float64   `json:"close" example:"270.88"`
	Volume    float64   `json:"volume" example:"1416"`
}

// Key returns the composite (timestamp, symbol) key of the bar.
func (b Bar) Key() BarKey {
	return BarKey{Timestamp: b.Timestamp, Symbol: b.Symbol}
}

// BarKey is the composite ordering key of the validated table.
type BarKey struct {
	Timestamp time.Time
	Symbol    string
}

// Less orders keys by timestamp ascending, then symbol ascending.
func (k BarKey) Less(o BarKey) bool {
	if !k.Timestamp.Equal(o.Timestamp) {
		return k.Timestamp.Before(o.Timestamp)
	}
	return k.Symbol < o.Symbol
}
