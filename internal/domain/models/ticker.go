package models

// Ticker is one row of the reference ticker file and of the relational
// `tickers` dimension table.
//
// Fields:
//   - TickerID: surrogate key. Nil when the reference file does not carry one,
//     in which case the database assigns it at persistence time.
//   - Symbol: ticker symbol, unique within the registry.
//   - Name, Exchange: descriptive metadata copied verbatim (may be empty).
type Ticker struct {
	TickerID *int64 `json:"ticker_id,omitempty"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Exchange string `json:"exchange,omitempty"`
}
