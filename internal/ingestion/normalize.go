package ingestion

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Canonical column names after normalization.
const (
	ColTimestamp = "timestamp"
	ColSymbol    = "symbol"
	ColTicker    = "ticker"
	ColOpen      = "open"
	ColHigh      = "high"
	ColLow       = "low"
	ColClose     = "close"
	ColVolume    = "volume"
)

// CriticalColumns must all be present, and fully populated, in a market file.
var CriticalColumns = []string{ColTimestamp, ColSymbol, ColOpen, ColHigh, ColLow, ColClose, ColVolume}

var numericColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// Frame is a normalized market table: lowercase column names, a canonical
// `symbol` column, UTC instants and numeric OHLCV.
//
// Missing-value markers: the zero time.Time for timestamps, "" for symbols and
// NaN for numeric cells. Columns absent from the source are absent here too.
type Frame struct {
	Source  string
	Columns []string

	rows    int
	renamed bool
	times   []time.Time
	symbols []string
	numbers map[string][]float64

	// first non-blank timestamp cell that is not ISO-8601; row is 1-based
	badTimeRow   int
	badTimeValue string
}

// Len returns the number of data rows.
func (f *Frame) Len() int { return f.rows }

// HasColumn reports whether the normalized frame carries column name.
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Renamed reports whether a `ticker` column was renamed to `symbol`.
func (f *Frame) Renamed() bool {
	return f.renamed
}

// Normalize turns a raw table into a Frame. Steps, in order:
//  1. lowercase (and trim) every column name;
//  2. rename `ticker` to `symbol` when no `symbol` column exists;
//  3. parse `timestamp` as an ISO-8601 instant, UTC when no zone is given;
//  4. coerce open/high/low/close/volume to float64, NaN when unparseable.
//
// A blank timestamp becomes a missing marker. A non-blank one that is not
// ISO-8601 is also left zero, and the first such cell is kept for Validate
// to report as MalformedTimestamp.
func Normalize(raw *RawTable) *Frame {
	f := &Frame{
		Source:  raw.Source,
		Columns: make([]string, len(raw.Header)),
		rows:    len(raw.Rows),
		numbers: make(map[string][]float64, len(numericColumns)),
	}

	for i, h := range raw.Header {
		f.Columns[i] = strings.ToLower(strings.TrimSpace(h))
	}

	if f.HasColumn(ColTicker) && !f.HasColumn(ColSymbol) {
		for i, c := range f.Columns {
			if c == ColTicker {
				f.Columns[i] = ColSymbol
			}
		}
		f.renamed = true
	}

	index := make(map[string]int, len(f.Columns))
	for i, c := range f.Columns {
		if _, seen := index[c]; !seen {
			index[c] = i
		}
	}

	if i, ok := index[ColTimestamp]; ok {
		f.times = make([]time.Time, f.rows)
		for r, row := range raw.Rows {
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			ts, err := ParseTimestamp(cell)
			if err != nil {
				if f.badTimeRow == 0 {
					f.badTimeRow, f.badTimeValue = r+1, cell
				}
				continue
			}
			f.times[r] = ts
		}
	}

	if i, ok := index[ColSymbol]; ok {
		f.symbols = make([]string, f.rows)
		for r, row := range raw.Rows {
			f.symbols[r] = strings.TrimSpace(row[i])
		}
	}

	for _, col := range numericColumns {
		i, ok := index[col]
		if !ok {
			continue
		}
		vals := make([]float64, f.rows)
		for r, row := range raw.Rows {
			vals[r] = coerceFloat(row[i])
		}
		f.numbers[col] = vals
	}

	return f
}

// coerceFloat parses s as a float64, returning NaN for blank or malformed input.
func coerceFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

var zonedLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02 15:04:05Z07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp and returns it in UTC. Inputs
// without a zone designator are taken as UTC. Fractional seconds are accepted
// after the seconds field.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	var firstErr error
	for _, layout := range zonedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, firstErr
}
