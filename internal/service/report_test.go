package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/barstore/internal/columnar"
	"github.com/guttosm/barstore/internal/domain/models"
	"github.com/guttosm/barstore/internal/metrics"
)

type stubQueries struct {
	bars     []models.Bar
	from, to time.Time
	n        int
	err      error
}

func (s *stubQueries) PricesInRange(_ context.Context, _ string, from, to time.Time) ([]models.Bar, error) {
	s.from, s.to = from, to
	return s.bars, s.err
}

func (s *stubQueries) AverageDailyVolume(_ context.Context) ([]models.DailyVolume, error) {
	return []models.DailyVolume{{Symbol: "AAPL", AverageDailyVolume: 30}}, s.err
}

func (s *stubQueries) TopReturns(_ context.Context, n int) ([]models.PeriodReturn, error) {
	s.n = n
	return nil, s.err
}

func (s *stubQueries) DailyFirstLast(_ context.Context) ([]models.DailyFirstLast, error) {
	return nil, s.err
}

type stubColumns struct {
	cols    *columnar.Columns
	filter  columnar.Filter
	columns []string
	err     error
}

func (s *stubColumns) ReadColumns(_ context.Context, f columnar.Filter, columns ...string) (*columnar.Columns, error) {
	s.filter, s.columns = f, columns
	return s.cols, s.err
}

type stubBench struct{ runs int }

func (s *stubBench) Compare(_ context.Context, symbol string, runs int) (models.Comparison, error) {
	s.runs = runs
	return models.Comparison{Symbol: symbol, Runs: runs}, nil
}

func day(d int) time.Time { return time.Date(2025, 11, d, 0, 0, 0, 0, time.UTC) }

func TestDayRange(t *testing.T) {
	from, to := DayRange(time.Date(2025, 11, 17, 15, 4, 0, 0, time.UTC), day(18))
	assert.Equal(t, day(17), from)
	assert.Equal(t, time.Date(2025, 11, 18, 23, 59, 59, 999999999, time.UTC), to)
}

func TestPrices_WidensRangeAndObserves(t *testing.T) {
	q := &stubQueries{bars: []models.Bar{{Symbol: "TSLA"}}}
	m := metrics.New()
	svc := NewReportService(q, &stubColumns{}, &stubBench{}, m)

	bars, err := svc.Prices(context.Background(), "TSLA", day(17), day(18))
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, day(17), q.from)
	assert.Equal(t, day(19).Add(-time.Nanosecond), q.to)
	assert.Equal(t, 1, testutil.CollectAndCount(m.QueryDuration))
}

func TestRelationalQueries_PropagateErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewReportService(&stubQueries{err: boom}, &stubColumns{}, &stubBench{}, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
	}{
		{"prices", func() error { _, err := svc.Prices(ctx, "X", day(1), day(2)); return err }},
		{"volume", func() error { _, err := svc.AverageDailyVolume(ctx); return err }},
		{"returns", func() error { _, err := svc.TopReturns(ctx, 3); return err }},
		{"first last", func() error { _, err := svc.DailyFirstLast(ctx); return err }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), boom)
		})
	}
}

func TestTopReturns_PassesN(t *testing.T) {
	q := &stubQueries{}
	svc := NewReportService(q, &stubColumns{}, &stubBench{}, nil)
	_, err := svc.TopReturns(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, q.n)
}

func TestRollingMeanClose_ReadsPrunedColumns(t *testing.T) {
	ts := time.Date(2025, 11, 17, 9, 30, 0, 0, time.UTC)
	cols := &columnar.Columns{
		Names:     []string{columnar.ColTimestamp, columnar.ColSymbol, columnar.ColClose},
		Len:       3,
		Timestamp: []time.Time{ts, ts.Add(time.Minute), ts.Add(2 * time.Minute)},
		Symbol:    []string{"AAPL", "AAPL", "AAPL"},
		Floats:    map[string][]float64{columnar.ColClose: {1, 2, 3}},
	}
	sc := &stubColumns{cols: cols}
	svc := NewReportService(&stubQueries{}, sc, &stubBench{}, nil)

	pts, err := svc.RollingMeanClose(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, sc.filter.Symbols)
	assert.Equal(t, []string{columnar.ColTimestamp, columnar.ColSymbol, columnar.ColClose}, sc.columns)
	require.Len(t, pts, 3)
	assert.False(t, pts[0].Valid)
	assert.InDelta(t, 1.5, pts[1].Rolling, 1e-9)
	assert.InDelta(t, 2.5, pts[2].Rolling, 1e-9)
}

func TestVolatility_ReadsAllPartitions(t *testing.T) {
	sc := &stubColumns{cols: &columnar.Columns{Floats: map[string][]float64{}}}
	svc := NewReportService(&stubQueries{}, sc, &stubBench{}, nil)

	pts, err := svc.Volatility(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, pts)
	assert.Empty(t, sc.filter.Symbols)

	_, err = svc.Volatility(context.Background(), 1)
	assert.Error(t, err)
}

func TestColumnarQueries_PropagateReadErrors(t *testing.T) {
	boom := errors.New("corrupt partition")
	svc := NewReportService(&stubQueries{}, &stubColumns{err: boom}, &stubBench{}, nil)

	_, err := svc.RollingMeanClose(context.Background(), "AAPL", 5)
	assert.ErrorIs(t, err, boom)
	_, err = svc.Volatility(context.Background(), 5)
	assert.ErrorIs(t, err, boom)
}

func TestCompare_Delegates(t *testing.T) {
	b := &stubBench{}
	svc := NewReportService(&stubQueries{}, &stubColumns{}, b, nil)
	c, err := svc.Compare(context.Background(), "TSLA", 4)
	require.NoError(t, err)
	assert.Equal(t, "TSLA", c.Symbol)
	assert.Equal(t, 4, b.runs)
}
