package ingestion

import (
	"sort"
	"strconv"
	"strings"

	"github.com/guttosm/barstore/internal/apperrors"
	"github.com/guttosm/barstore/internal/domain/models"
)

// Registry is the closed universe of symbols a market file must cover, plus the
// reference records the relational backend stores in its `tickers` table.
// It is immutable once loaded.
type Registry struct {
	Source  string
	Records []models.Ticker
	symbols map[string]struct{}
}

// NewRegistry builds a registry from bare symbols (no descriptive metadata).
func NewRegistry(symbols ...string) *Registry {
	r := &Registry{symbols: make(map[string]struct{}, len(symbols))}
	for _, s := range symbols {
		r.add(models.Ticker{Symbol: s})
	}
	return r
}

func (r *Registry) add(t models.Ticker) {
	t.Symbol = strings.TrimSpace(t.Symbol)
	if t.Symbol == "" {
		return
	}
	if _, dup := r.symbols[t.Symbol]; dup {
		return
	}
	r.symbols[t.Symbol] = struct{}{}
	r.Records = append(r.Records, t)
}

// Has reports whether symbol belongs to the registry.
func (r *Registry) Has(symbol string) bool {
	_, ok := r.symbols[symbol]
	return ok
}

// Len returns the number of unique symbols.
func (r *Registry) Len() int { return len(r.symbols) }

// Symbols returns the registry members in ascending order.
func (r *Registry) Symbols() []string {
	out := make([]string, 0, len(r.symbols))
	for s := range r.symbols {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// LoadRegistry reads the reference ticker file at path.
//
// The file must have a `symbol` column (matched case-insensitively). Optional
// `ticker_id`, `name` and `exchange` columns are carried into Records.
// Duplicate symbols collapse onto their first row; blank symbols are skipped.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return RegistryFromTable(raw)
}

// RegistryFromTable builds a Registry from an already loaded table.
func RegistryFromTable(raw *RawTable) (*Registry, error) {
	cols := map[string]int{}
	for i, h := range raw.Header {
		name := strings.ToLower(strings.TrimSpace(h))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}

	symIdx, ok := cols[ColSymbol]
	if !ok {
		return nil, &apperrors.ValidationError{
			Kind:    apperrors.ColumnsMissing,
			Source:  raw.Source,
			Columns: []string{ColSymbol},
		}
	}

	cell := func(row []string, name string) string {
		if i, ok := cols[name]; ok {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	reg := &Registry{Source: raw.Source, symbols: make(map[string]struct{}, len(raw.Rows))}
	for _, row := range raw.Rows {
		t := models.Ticker{
			Symbol:   row[symIdx],
			Name:     cell(row, "name"),
			Exchange: cell(row, "exchange"),
		}
		if s := cell(row, "ticker_id"); s != "" {
			if id, err := strconv.ParseInt(s, 10, 64); err == nil {
				t.TickerID = &id
			}
		}
		reg.add(t)
	}
	return reg, nil
}
