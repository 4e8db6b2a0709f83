package ingestion

import (
	"sort"
	"time"

	"github.com/guttosm/barstore/internal/domain/models"
)

// Table is the validated market table, ordered by (timestamp asc, symbol asc).
//
// Callers may rely on that order: rows come back in non-decreasing timestamp
// order and rows sharing a timestamp are sorted by symbol. The slice returned
// by Bars must not be modified.
type Table struct {
	Source string
	bars   []models.Bar
}

// BuildIndex materializes the bars of a validated frame and orders them by the
// composite (timestamp, symbol) key. The row count is preserved.
func BuildIndex(f *Frame) *Table {
	bars := make([]models.Bar, f.rows)
	for r := 0; r < f.rows; r++ {
		bars[r] = models.Bar{
			Timestamp: f.times[r],
			Symbol:    f.symbols[r],
			Open:      f.numbers[ColOpen][r],
			High:      f.numbers[ColHigh][r],
			Low:       f.numbers[ColLow][r],
			Close:     f.numbers[ColClose][r],
			Volume:    f.numbers[ColVolume][r],
		}
	}
	t := &Table{Source: f.Source, bars: bars}
	t.sort()
	return t
}

// NewTable builds an ordered table from bars; the input slice is copied.
func NewTable(bars []models.Bar) *Table {
	t := &Table{bars: append([]models.Bar(nil), bars...)}
	t.sort()
	return t
}

func (t *Table) sort() {
	sort.SliceStable(t.bars, func(i, j int) bool {
		return t.bars[i].Key().Less(t.bars[j].Key())
	})
}

// IndexNames returns the levels of the composite key, outermost first.
func (t *Table) IndexNames() []string {
	return []string{ColTimestamp, ColSymbol}
}

// Len returns the number of bars.
func (t *Table) Len() int { return len(t.bars) }

// Bars returns every bar in key order.
func (t *Table) Bars() []models.Bar { return t.bars }

// Symbols returns the distinct symbols in ascending order.
func (t *Table) Symbols() []string {
	set := map[string]struct{}{}
	for _, b := range t.bars {
		set[b.Symbol] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the bar stored under (ts, symbol).
func (t *Table) Lookup(ts time.Time, symbol string) (models.Bar, bool) {
	key := models.BarKey{Timestamp: ts, Symbol: symbol}
	i := sort.Search(len(t.bars), func(i int) bool {
		return !t.bars[i].Key().Less(key)
	})
	if i < len(t.bars) && t.bars[i].Timestamp.Equal(ts) && t.bars[i].Symbol == symbol {
		return t.bars[i], true
	}
	return models.Bar{}, false
}

// Range returns the bars whose timestamp lies in [from, to], in key order.
func (t *Table) Range(from, to time.Time) []models.Bar {
	lo := sort.Search(len(t.bars), func(i int) bool {
		return !t.bars[i].Timestamp.Before(from)
	})
	hi := sort.Search(len(t.bars), func(i int) bool {
		return t.bars[i].Timestamp.After(to)
	})
	if lo >= hi {
		return nil
	}
	return t.bars[lo:hi]
}

// BySymbol splits the table into one timestamp-ordered slice per symbol.
func (t *Table) BySymbol() map[string][]models.Bar {
	out := map[string][]models.Bar{}
	for _, b := range t.bars {
		out[b.Symbol] = append(out[b.Symbol], b)
	}
	return out
}
