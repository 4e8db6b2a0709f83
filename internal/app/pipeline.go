package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guttosm/barstore/config"
	"github.com/guttosm/barstore/internal/benchmark"
	"github.com/guttosm/barstore/internal/columnar"
	"github.com/guttosm/barstore/internal/domain/models"
	"github.com/guttosm/barstore/internal/ingestion"
	"github.com/guttosm/barstore/internal/logger"
	"github.com/guttosm/barstore/internal/metrics"
	"github.com/guttosm/barstore/internal/service"
	"github.com/guttosm/barstore/internal/storage"
)

// sampleRows is how many rows of each query result the report logs.
const sampleRows = 5

// IngestResult summarizes one ingest run.
type IngestResult struct {
	RunID      string
	Rows       int
	Relational storage.PersistStats
	Columnar   columnar.WriteStats
}

// RunIngest loads and validates the inputs named by cfg, then rebuilds the
// relational store and the partitioned dataset from scratch.
//
// Steps:
//  1. Load, normalize, validate and index the market data.
//  2. Read the schema script.
//  3. Recreate the relational schema and persist tickers and prices.
//  4. Rewrite the partitioned dataset.
//
// Existing stores are untouched when step 1 or 2 fails.
func RunIngest(ctx context.Context, cfg config.Config, m *metrics.Metrics) (IngestResult, error) {
	res := IngestResult{RunID: uuid.NewString()}
	log := logger.With("pipeline").With().Str("run_id", res.RunID).Logger()
	start := time.Now()
	log.Info().
		Str("market_file", cfg.Input.MarketDataFile).
		Str("tickers_file", cfg.Input.TickersFile).
		Str("driver", cfg.Database.Driver).
		Msg("ingest started")

	table, reg, err := ingestion.NewLoader(m).Load(ctx, cfg.Input.MarketDataFile, cfg.Input.TickersFile)
	if err != nil {
		return res, fmt.Errorf("load market data: %w", err)
	}
	res.Rows = table.Len()

	schemaSQL, err := storage.LoadSchema(cfg.Database.SchemaFile)
	if err != nil {
		return res, err
	}

	if cfg.Database.Driver == string(storage.SQLite) {
		if err := removeSQLiteFile(cfg.Database.SQLitePath); err != nil {
			return res, err
		}
	}
	db, dialect, err := dbOpener(ctx, cfg)
	if err != nil {
		return res, err
	}
	defer func() { _ = db.Close() }()

	repo := storage.NewRepository(db, dialect)
	if res.Relational, err = storage.NewPersister(repo, cfg.Database.BatchSize, m).Persist(ctx, schemaSQL, table, reg); err != nil {
		return res, fmt.Errorf("persist relational store: %w", err)
	}

	store := columnar.NewStore(cfg.Parquet.Dir, cfg.Parquet.Parallel, m)
	if res.Columnar, err = store.Write(ctx, table); err != nil {
		return res, fmt.Errorf("write partitioned dataset: %w", err)
	}

	log.Info().
		Int("rows", res.Rows).
		Int("tickers", res.Relational.Tickers).
		Int("unmapped", res.Relational.Unmapped).
		Int("partitions", res.Columnar.Partitions).
		Dur("elapsed", time.Since(start)).
		Msg("ingest completed")
	return res, nil
}

// Report holds the results of every canned query.
type Report struct {
	Prices     []models.Bar
	Volumes    []models.DailyVolume
	Returns    []models.PeriodReturn
	FirstLast  []models.DailyFirstLast
	Rolling    []models.RollingPoint
	Volatility []models.RollingPoint
	Comparison models.Comparison
}

// RunReport runs the canned queries of both backends with the parameters of
// cfg.Report, logs a sample of each result and the backend comparison.
// The range query is skipped when REPORT_FROM or REPORT_TO is empty.
func RunReport(ctx context.Context, cfg config.Config, m *metrics.Metrics) (*Report, error) {
	db, dialect, err := dbOpener(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	repo := storage.NewRepository(db, dialect)
	store := columnar.NewStore(cfg.Parquet.Dir, cfg.Parquet.Parallel, m)
	svc := service.NewReportService(repo, store, benchmark.NewComparer(repo, store, m), m)
	log := logger.With("report")
	rc := cfg.Report
	out := &Report{}

	if rc.From != "" && rc.To != "" {
		from, err := time.Parse(service.DateLayout, rc.From)
		if err != nil {
			return nil, fmt.Errorf("report from: %w", err)
		}
		to, err := time.Parse(service.DateLayout, rc.To)
		if err != nil {
			return nil, fmt.Errorf("report to: %w", err)
		}
		if out.Prices, err = svc.Prices(ctx, rc.Symbol, from, to); err != nil {
			return nil, fmt.Errorf("prices in range: %w", err)
		}
		logSample(log, "prices in range", out.Prices).
			Str("symbol", rc.Symbol).Str("from", rc.From).Str("to", rc.To).Msg("prices in range")
	}

	if out.Volumes, err = svc.AverageDailyVolume(ctx); err != nil {
		return nil, fmt.Errorf("average daily volume: %w", err)
	}
	logSample(log, "average daily volume", out.Volumes).Msg("average daily volume")

	if out.Returns, err = svc.TopReturns(ctx, rc.TopN); err != nil {
		return nil, fmt.Errorf("top returns: %w", err)
	}
	logSample(log, "top returns", out.Returns).Int("n", rc.TopN).Msg("top returns")

	if out.FirstLast, err = svc.DailyFirstLast(ctx); err != nil {
		return nil, fmt.Errorf("daily first/last: %w", err)
	}
	logSample(log, "daily first/last", out.FirstLast).Msg("daily first and last prices")

	if out.Rolling, err = svc.RollingMeanClose(ctx, rc.RollingSymbol, rc.RollingWindow); err != nil {
		return nil, fmt.Errorf("rolling mean: %w", err)
	}
	logSample(log, "rolling mean", out.Rolling).
		Str("symbol", rc.RollingSymbol).Int("window", rc.RollingWindow).Msg("rolling mean close")

	if out.Volatility, err = svc.Volatility(ctx, rc.VolatilityWindow); err != nil {
		return nil, fmt.Errorf("volatility: %w", err)
	}
	logSample(log, "volatility", out.Volatility).Int("window", rc.VolatilityWindow).Msg("daily return volatility")

	if out.Comparison, err = svc.Compare(ctx, rc.BenchSymbol, rc.BenchRuns); err != nil {
		return nil, fmt.Errorf("compare backends: %w", err)
	}
	return out, nil
}

// logSample starts an info event carrying the row count and the first rows of a result.
func logSample[T any](log zerolog.Logger, name string, rows []T) *zerolog.Event {
	return log.Info().
		Str("query", name).
		Int("rows", len(rows)).
		Interface("sample", rows[:min(sampleRows, len(rows))])
}
