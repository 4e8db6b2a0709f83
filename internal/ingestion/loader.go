package ingestion

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/guttosm/barstore/internal/apperrors"
	"github.com/guttosm/barstore/internal/logger"
	"github.com/guttosm/barstore/internal/metrics"
)

// Loader runs the load → normalize → validate → index pipeline.
// Metrics is optional.
type Loader struct {
	Log     zerolog.Logger
	Metrics *metrics.Metrics
}

// NewLoader returns a Loader logging under the "ingestion" component.
func NewLoader(m *metrics.Metrics) *Loader {
	return &Loader{Log: logger.With("ingestion"), Metrics: m}
}

// LoadValidateData is the package-level shortcut for NewLoader(nil).Load.
func LoadValidateData(ctx context.Context, marketPath, tickersPath string) (*Table, *Registry, error) {
	return NewLoader(nil).Load(ctx, marketPath, tickersPath)
}

// Load reads the registry at tickersPath and the market file at marketPath,
// normalizes and validates the market data, and returns it indexed by
// (timestamp, symbol).
//
// Any failure aborts the pipeline: NotFound for absent files, a
// ValidationError for the first failing gate.
func (l *Loader) Load(ctx context.Context, marketPath, tickersPath string) (*Table, *Registry, error) {
	reg, err := LoadRegistry(tickersPath)
	if err != nil {
		l.Log.Error().Err(err).Str("file", tickersPath).Msg("ticker file load failed")
		return nil, nil, err
	}
	l.Log.Info().Int("tickers", reg.Len()).Str("file", tickersPath).Msg("loaded required tickers")

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	raw, err := ReadTable(marketPath)
	if err != nil {
		l.Log.Error().Err(err).Str("file", marketPath).Msg("market data load failed")
		return nil, nil, err
	}
	rows, cols := raw.Shape()
	l.Log.Info().Str("file", marketPath).Int("rows", rows).Int("columns", cols).Msg("loaded market data")

	frame := Normalize(raw)
	if frame.Renamed() {
		l.Log.Info().Msg("normalized 'ticker' column to 'symbol'")
	}
	l.Log.Debug().Strs("columns", frame.Columns).Msg("data normalized")

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if err := Validate(frame, reg); err != nil {
		return nil, nil, l.fail(err)
	}
	l.Log.Info().Int("rows", frame.Len()).Msg("validation passed")

	table := BuildIndex(frame)
	if l.Metrics != nil {
		l.Metrics.RowsLoaded.Add(float64(table.Len()))
	}
	l.Log.Info().Int("rows", table.Len()).Strs("symbols", table.Symbols()).Msg("ingestion complete")
	return table, reg, nil
}

func (l *Loader) fail(err error) error {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		if l.Metrics != nil {
			l.Metrics.ValidationFailures.WithLabelValues(ve.Kind.String()).Inc()
		}
		l.Log.Error().Str("gate", ve.Kind.String()).Err(err).Msg("validation failed")
	}
	return err
}
