package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/barstore/internal/ingestion"
	"github.com/guttosm/barstore/internal/logger"
	"github.com/guttosm/barstore/internal/metrics"
)

// DefaultBatchSize is the number of price rows written per transaction.
const DefaultBatchSize = 5000

// PersistStats summarizes one relational rebuild.
type PersistStats struct {
	Tickers  int
	Rows     int
	Unmapped int
	Batches  int
}

// Persister rebuilds the relational store from a validated table.
type Persister struct {
	Repo      Repository
	BatchSize int
	Log       zerolog.Logger
	Metrics   *metrics.Metrics
}

// NewPersister returns a Persister writing batchSize rows per transaction.
// A non-positive batchSize falls back to DefaultBatchSize.
func NewPersister(repo Repository, batchSize int, m *metrics.Metrics) *Persister {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Persister{Repo: repo, BatchSize: batchSize, Log: logger.With("relational"), Metrics: m}
}

// Persist destructively recreates the schema from schemaSQL, loads the
// registry into `tickers` and every bar of table into `prices`.
//
// Bars whose symbol is not in `tickers` are stored with a NULL ticker_id and
// counted in PersistStats.Unmapped; the canned queries never see them.
func (p *Persister) Persist(ctx context.Context, schemaSQL string, table *ingestion.Table, reg *ingestion.Registry) (PersistStats, error) {
	start := time.Now()
	var stats PersistStats

	if err := p.Repo.RecreateSchema(ctx, schemaSQL); err != nil {
		return stats, err
	}
	p.Log.Info().Str("dialect", string(p.Repo.Dialect())).Msg("schema recreated")

	if err := p.Repo.InsertTickers(ctx, reg.Records); err != nil {
		return stats, err
	}
	stats.Tickers = len(reg.Records)
	p.Log.Info().Int("tickers", stats.Tickers).Msg("populated tickers table")

	ids, err := p.Repo.TickerIDs(ctx)
	if err != nil {
		return stats, err
	}

	bars := table.Bars()
	batch := make([]PriceRow, 0, min(p.BatchSize, len(bars)))
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.Repo.InsertPrices(ctx, batch); err != nil {
			return err
		}
		stats.Rows += len(batch)
		stats.Batches++
		batch = batch[:0]
		return nil
	}

	for _, b := range bars {
		row := PriceRow{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
		if id, ok := ids[b.Symbol]; ok {
			row.TickerID = &id
		} else {
			stats.Unmapped++
		}
		batch = append(batch, row)
		if len(batch) == p.BatchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := flush(); err != nil {
		return stats, err
	}

	if stats.Unmapped > 0 {
		p.Log.Warn().Int("rows", stats.Unmapped).Msg("price rows stored without ticker_id: symbol missing from tickers")
	}
	p.Metrics.ObservePersist(metrics.BackendRelational, start)
	p.Log.Info().
		Int("rows", stats.Rows).
		Int("batches", stats.Batches).
		Dur("elapsed", time.Since(start)).
		Msg("populated prices table")
	return stats, nil
}
