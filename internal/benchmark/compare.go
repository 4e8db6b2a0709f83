// Package benchmark compares the footprint and single-symbol read latency of
// the relational and columnar backends. Results are informational only.
package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/barstore/internal/columnar"
	"github.com/guttosm/barstore/internal/domain/models"
	"github.com/guttosm/barstore/internal/logger"
	"github.com/guttosm/barstore/internal/metrics"
)

// DefaultRuns is the number of timed reads per backend.
const DefaultRuns = 10

// RelationalSource is the part of the relational repository the comparison reads.
type RelationalSource interface {
	FetchSymbol(ctx context.Context, symbol string) ([]models.Bar, error)
	SizeBytes(ctx context.Context) (int64, error)
}

// ColumnarSource is the part of the columnar store the comparison reads.
type ColumnarSource interface {
	Read(ctx context.Context, f columnar.Filter) ([]models.Bar, error)
	SizeBytes() (int64, error)
}

// Comparer runs the backend comparison.
type Comparer struct {
	Relational RelationalSource
	Columnar   ColumnarSource
	Log        zerolog.Logger
	Metrics    *metrics.Metrics
}

// NewComparer returns a Comparer over both backends.
func NewComparer(rel RelationalSource, col ColumnarSource, m *metrics.Metrics) *Comparer {
	return &Comparer{Relational: rel, Columnar: col, Log: logger.With("benchmark"), Metrics: m}
}

// Compare measures both backends' size, then reads every bar of symbol from
// each backend runs times and reports the mean latency.
func (c *Comparer) Compare(ctx context.Context, symbol string, runs int) (models.Comparison, error) {
	if runs < 1 {
		runs = DefaultRuns
	}
	res := models.Comparison{Symbol: symbol, Runs: runs}

	var err error
	if res.RelationalBytes, err = c.Relational.SizeBytes(ctx); err != nil {
		return res, fmt.Errorf("relational size: %w", err)
	}
	if res.ColumnarBytes, err = c.Columnar.SizeBytes(); err != nil {
		return res, fmt.Errorf("columnar size: %w", err)
	}

	res.RelationalLatency, res.RelationalRows, err = c.measure(ctx, metrics.BackendRelational, runs, func() (int, error) {
		bars, err := c.Relational.FetchSymbol(ctx, symbol)
		return len(bars), err
	})
	if err != nil {
		return res, fmt.Errorf("relational fetch %s: %w", symbol, err)
	}

	res.ColumnarLatency, res.ColumnarRows, err = c.measure(ctx, metrics.BackendColumnar, runs, func() (int, error) {
		bars, err := c.Columnar.Read(ctx, columnar.Filter{Symbols: []string{symbol}})
		return len(bars), err
	})
	if err != nil {
		return res, fmt.Errorf("columnar fetch %s: %w", symbol, err)
	}

	c.Log.Info().
		Str("symbol", symbol).
		Int("runs", runs).
		Str("relational_size", FormatMB(res.RelationalBytes)).
		Str("columnar_size", FormatMB(res.ColumnarBytes)).
		Dur("relational_avg", res.RelationalLatency).
		Dur("columnar_avg", res.ColumnarLatency).
		Float64("speedup", res.Speedup()).
		Msg("backend comparison")
	return res, nil
}

// measure runs fn runs times and returns the mean wall time and the row count of
// the last run.
func (c *Comparer) measure(ctx context.Context, backend string, runs int, fn func() (int, error)) (time.Duration, int, error) {
	var (
		total time.Duration
		rows  int
	)
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		start := time.Now()
		n, err := fn()
		if err != nil {
			return 0, 0, err
		}
		total += time.Since(start)
		c.Metrics.ObserveQuery(backend, "fetch_symbol", start)
		rows = n
	}
	return total / time.Duration(runs), rows, nil
}

// FormatMB renders a byte count in mebibytes with four decimals.
func FormatMB(n int64) string {
	return fmt.Sprintf("%.4f MB", float64(n)/(1024*1024))
}
