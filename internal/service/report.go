// Package service exposes the canned reporting queries of both backends to
// the report pipeline and the HTTP API.
package service

import (
	"context"
	"time"

	"github.com/guttosm/barstore/internal/analytics"
	"github.com/guttosm/barstore/internal/columnar"
	"github.com/guttosm/barstore/internal/domain/models"
	"github.com/guttosm/barstore/internal/metrics"
)

// DateLayout is the day format accepted for range bounds.
const DateLayout = "2006-01-02"

// Queries is the read side of the relational repository.
type Queries interface {
	PricesInRange(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	AverageDailyVolume(ctx context.Context) ([]models.DailyVolume, error)
	TopReturns(ctx context.Context, n int) ([]models.PeriodReturn, error)
	DailyFirstLast(ctx context.Context) ([]models.DailyFirstLast, error)
}

// ColumnReader is the column-pruned read side of the columnar store.
type ColumnReader interface {
	ReadColumns(ctx context.Context, f columnar.Filter, columns ...string) (*columnar.Columns, error)
}

// Benchmarker compares both backends for one symbol.
type Benchmarker interface {
	Compare(ctx context.Context, symbol string, runs int) (models.Comparison, error)
}

// ReportService runs the canned queries.
type ReportService interface {
	// Prices returns the bars of symbol whose timestamp falls between the
	// start of day `from` and the end of day `to` (UTC, both inclusive).
	Prices(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	AverageDailyVolume(ctx context.Context) ([]models.DailyVolume, error)
	TopReturns(ctx context.Context, n int) ([]models.PeriodReturn, error)
	DailyFirstLast(ctx context.Context) ([]models.DailyFirstLast, error)
	RollingMeanClose(ctx context.Context, symbol string, window int) ([]models.RollingPoint, error)
	Volatility(ctx context.Context, window int) ([]models.RollingPoint, error)
	Compare(ctx context.Context, symbol string, runs int) (models.Comparison, error)
}

type reportService struct {
	queries Queries
	columns ColumnReader
	bench   Benchmarker
	metrics *metrics.Metrics
}

// NewReportService wires the relational queries, the columnar reader and the
// benchmark. m may be nil.
func NewReportService(q Queries, cols ColumnReader, bench Benchmarker, m *metrics.Metrics) ReportService {
	return &reportService{queries: q, columns: cols, bench: bench, metrics: m}
}

// DayRange widens two dates to [from 00:00, to 23:59:59.999999999] UTC.
func DayRange(from, to time.Time) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

func (s *reportService) Prices(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	defer s.metrics.ObserveQuery(metrics.BackendRelational, "prices_in_range", time.Now())
	start, end := DayRange(from, to)
	return s.queries.PricesInRange(ctx, symbol, start, end)
}

func (s *reportService) AverageDailyVolume(ctx context.Context) ([]models.DailyVolume, error) {
	defer s.metrics.ObserveQuery(metrics.BackendRelational, "average_daily_volume", time.Now())
	return s.queries.AverageDailyVolume(ctx)
}

func (s *reportService) TopReturns(ctx context.Context, n int) ([]models.PeriodReturn, error) {
	defer s.metrics.ObserveQuery(metrics.BackendRelational, "top_returns", time.Now())
	return s.queries.TopReturns(ctx, n)
}

func (s *reportService) DailyFirstLast(ctx context.Context) ([]models.DailyFirstLast, error) {
	defer s.metrics.ObserveQuery(metrics.BackendRelational, "daily_first_last", time.Now())
	return s.queries.DailyFirstLast(ctx)
}

func (s *reportService) RollingMeanClose(ctx context.Context, symbol string, window int) ([]models.RollingPoint, error) {
	defer s.metrics.ObserveQuery(metrics.BackendColumnar, "rolling_mean_close", time.Now())
	cols, err := s.columns.ReadColumns(ctx, columnar.Filter{Symbols: []string{symbol}},
		columnar.ColTimestamp, columnar.ColSymbol, columnar.ColClose)
	if err != nil {
		return nil, err
	}
	return analytics.RollingMeanClose(cols.Bars(), window)
}

func (s *reportService) Volatility(ctx context.Context, window int) ([]models.RollingPoint, error) {
	defer s.metrics.ObserveQuery(metrics.BackendColumnar, "daily_return_volatility", time.Now())
	cols, err := s.columns.ReadColumns(ctx, columnar.Filter{},
		columnar.ColTimestamp, columnar.ColSymbol, columnar.ColClose)
	if err != nil {
		return nil, err
	}
	return analytics.DailyReturnVolatility(cols.Bars(), window)
}

func (s *reportService) Compare(ctx context.Context, symbol string, runs int) (models.Comparison, error) {
	return s.bench.Compare(ctx, symbol, runs)
}
