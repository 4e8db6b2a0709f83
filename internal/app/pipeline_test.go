package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/barstore/config"
	"github.com/guttosm/barstore/internal/apperrors"
	"github.com/guttosm/barstore/internal/metrics"
)

const pipelineMarket = "timestamp,symbol,open,high,low,close,volume\n" +
	"2025-11-17T09:30:00Z,AAPL,100,101,99,101,10\n" +
	"2025-11-17T09:31:00Z,AAPL,101,103,100,102,20\n" +
	"2025-11-18T09:30:00Z,AAPL,102,105,101,104,30\n" +
	"2025-11-17T09:30:00Z,MSFT,50,51,48,49,5\n" +
	"2025-11-18T09:30:00Z,MSFT,49,56,49,55,15\n"

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// pipelineConfig points every input and output of a run into a temp dir.
func pipelineConfig(t *testing.T, market string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Input: config.InputConfig{
			MarketDataFile: write(t, filepath.Join(dir, "market.csv"), market),
			TickersFile:    write(t, filepath.Join(dir, "tickers.csv"), "symbol,name\nAAPL,Apple\nMSFT,Microsoft\n"),
		},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(dir, "market_data.db"),
			SchemaFile: filepath.Join("..", "..", "db", "schema", "sqlite.sql"),
			BatchSize:  2,
		},
		Parquet: config.ParquetConfig{Dir: filepath.Join(dir, "parquet"), Parallel: 2},
		Report: config.ReportConfig{
			Symbol:           "AAPL",
			From:             "2025-11-17",
			To:               "2025-11-17",
			TopN:             3,
			RollingSymbol:    "AAPL",
			RollingWindow:    2,
			VolatilityWindow: 2,
			BenchSymbol:      "AAPL",
			BenchRuns:        2,
		},
	}
}

func TestRunIngestThenReport(t *testing.T) {
	ctx := context.Background()
	cfg := pipelineConfig(t, pipelineMarket)
	m := metrics.New()

	res, err := RunIngest(ctx, cfg, m)
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 2, res.Relational.Tickers)
	assert.Equal(t, 5, res.Relational.Rows)
	assert.Equal(t, 3, res.Relational.Batches)
	assert.Equal(t, 2, res.Columnar.Partitions)
	assert.DirExists(t, filepath.Join(cfg.Parquet.Dir, "symbol=AAPL"))

	rep, err := RunReport(ctx, cfg, m)
	require.NoError(t, err)

	require.Len(t, rep.Prices, 2, "one whole day of AAPL")
	assert.Equal(t, 102.0, rep.Prices[1].Close)

	require.Len(t, rep.Volumes, 2)
	assert.Equal(t, 30.0, rep.Volumes[0].AverageDailyVolume)

	require.Len(t, rep.Returns, 2)
	assert.Equal(t, "MSFT", rep.Returns[0].Symbol)

	assert.Len(t, rep.FirstLast, 4)

	require.Len(t, rep.Rolling, 3)
	assert.False(t, rep.Rolling[0].Valid)
	assert.InDelta(t, 103.0, rep.Rolling[2].Rolling, 1e-9)

	// One daily return per symbol, fewer than the window.
	require.Len(t, rep.Volatility, 2)
	assert.False(t, rep.Volatility[0].Valid)

	assert.Equal(t, 3, rep.Comparison.RelationalRows)
	assert.Equal(t, 3, rep.Comparison.ColumnarRows)
	assert.Positive(t, rep.Comparison.RelationalBytes)
	assert.Positive(t, rep.Comparison.ColumnarBytes)
}

func TestRunIngest_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	cfg := pipelineConfig(t, pipelineMarket)

	_, err := RunIngest(ctx, cfg, nil)
	require.NoError(t, err)
	first, err := RunIngest(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Relational.Rows)

	rep, err := RunReport(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Len(t, rep.FirstLast, 4, "second run replaces, never appends")
}

func TestRunIngest_ValidationFailureKeepsStores(t *testing.T) {
	ctx := context.Background()
	cfg := pipelineConfig(t, pipelineMarket)
	_, err := RunIngest(ctx, cfg, nil)
	require.NoError(t, err)

	write(t, cfg.Input.MarketDataFile, pipelineMarket+"2025-11-17T09:30:00Z,AAPL,1,1,1,1,1\n")
	_, err = RunIngest(ctx, cfg, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, apperrors.DuplicateData, apperrors.ValidationKindOf(err))

	rep, err := RunReport(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Len(t, rep.Volumes, 2)
}

func TestRunIngest_MissingSchema(t *testing.T) {
	cfg := pipelineConfig(t, pipelineMarket)
	cfg.Database.SchemaFile = filepath.Join(t.TempDir(), "nope.sql")

	_, err := RunIngest(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.NoFileExists(t, cfg.Database.SQLitePath)
}

func TestRunReport_SkipsRangeWithoutDates(t *testing.T) {
	ctx := context.Background()
	cfg := pipelineConfig(t, pipelineMarket)
	_, err := RunIngest(ctx, cfg, nil)
	require.NoError(t, err)

	cfg.Report.From, cfg.Report.To = "", ""
	rep, err := RunReport(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, rep.Prices)
}

func TestRunReport_MissingDataset(t *testing.T) {
	ctx := context.Background()
	cfg := pipelineConfig(t, pipelineMarket)
	_, err := RunIngest(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(cfg.Parquet.Dir))

	_, err = RunReport(ctx, cfg, nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
