package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/barstore/internal/apperrors"
	"github.com/guttosm/barstore/internal/domain/models"
)

// TimestampLayout is the text form of `prices.timestamp`. Every value has the
// same width, so it sorts lexicographically in time order, and its first ten
// characters are the UTC trading day.
const TimestampLayout = "2006-01-02 15:04:05.000000000-07:00"

// readLayout also accepts rows written with a trimmed fraction.
const readLayout = "2006-01-02 15:04:05.999999999-07:00"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(readLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// PriceRow is one row of the `prices` fact table. A nil TickerID is stored as NULL.
type PriceRow struct {
	Timestamp time.Time
	TickerID  *int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Repository defines the relational operations used by the persister and the
// report layer.
type Repository interface {
	Dialect() Dialect
	Ping(ctx context.Context) error

	RecreateSchema(ctx context.Context, schemaSQL string) error
	InsertTickers(ctx context.Context, tickers []models.Ticker) error
	TickerIDs(ctx context.Context) (map[string]int64, error)
	InsertPrices(ctx context.Context, rows []PriceRow) error

	PricesInRange(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	AverageDailyVolume(ctx context.Context) ([]models.DailyVolume, error)
	TopReturns(ctx context.Context, n int) ([]models.PeriodReturn, error)
	DailyFirstLast(ctx context.Context) ([]models.DailyFirstLast, error)
	FetchSymbol(ctx context.Context, symbol string) ([]models.Bar, error)
	SizeBytes(ctx context.Context) (int64, error)
}

type sqlRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewRepository returns a Repository over db speaking the given dialect.
func NewRepository(db *sql.DB, dialect Dialect) Repository {
	return &sqlRepository{db: db, dialect: dialect}
}

func (r *sqlRepository) Dialect() Dialect { return r.dialect }

func (r *sqlRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// RecreateSchema drops both tables and executes schemaSQL. Any existing data is lost.
func (r *sqlRepository) RecreateSchema(ctx context.Context, schemaSQL string) error {
	for _, stmt := range []string{`DROP TABLE IF EXISTS prices`, `DROP TABLE IF EXISTS tickers`} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Storage("drop tables", err)
		}
	}
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return apperrors.Schema("execute schema", "", err)
	}
	return nil
}

// InsertTickers writes the registry records into `tickers` in one transaction.
// Records carrying a TickerID keep it; the others get a database-assigned key.
func (r *sqlRepository) InsertTickers(ctx context.Context, tickers []models.Ticker) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("insert tickers", err)
	}

	explicit := false
	for _, t := range tickers {
		var err error
		if t.TickerID != nil {
			explicit = true
			_, err = tx.ExecContext(ctx,
				r.dialect.Rebind(`INSERT INTO tickers (ticker_id, symbol, name, exchange) VALUES (?, ?, ?, ?)`),
				*t.TickerID, t.Symbol, nullString(t.Name), nullString(t.Exchange))
		} else {
			_, err = tx.ExecContext(ctx,
				r.dialect.Rebind(`INSERT INTO tickers (symbol, name, exchange) VALUES (?, ?, ?)`),
				t.Symbol, nullString(t.Name), nullString(t.Exchange))
		}
		if err != nil {
			_ = tx.Rollback()
			return apperrors.Storage(fmt.Sprintf("insert ticker %s", t.Symbol), err)
		}
	}

	// Explicit keys bypass the BIGSERIAL sequence; move it past them.
	if explicit && r.dialect == Postgres {
		if _, err := tx.ExecContext(ctx,
			`SELECT setval(pg_get_serial_sequence('tickers', 'ticker_id'), COALESCE((SELECT MAX(ticker_id) FROM tickers), 0) + 1, false)`,
		); err != nil {
			_ = tx.Rollback()
			return apperrors.Storage("reset ticker sequence", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("insert tickers", err)
	}
	return nil
}

// TickerIDs reads back the symbol → ticker_id mapping.
func (r *sqlRepository) TickerIDs(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ticker_id, symbol FROM tickers`)
	if err != nil {
		return nil, apperrors.Storage("read ticker ids", err)
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var (
			id     int64
			symbol string
		)
		if err := rows.Scan(&id, &symbol); err != nil {
			return nil, apperrors.Storage("scan ticker id", err)
		}
		out[symbol] = id
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("read ticker ids", err)
	}
	return out, nil
}

var priceColumns = []string{"timestamp", "ticker_id", "open", "high", "low", "close", "volume"}

// InsertPrices bulk-loads one batch of rows inside a single transaction:
// COPY on PostgreSQL, a prepared INSERT on SQLite.
func (r *sqlRepository) InsertPrices(ctx context.Context, rows []PriceRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("insert prices", err)
	}

	var stmt *sql.Stmt
	switch r.dialect {
	case Postgres:
		// Small optimization for bulk load
		if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
			_ = tx.Rollback()
			return apperrors.Storage("insert prices", err)
		}
		stmt, err = tx.PrepareContext(ctx, pq.CopyIn("prices", priceColumns...))
	default:
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO prices (timestamp, ticker_id, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	}
	if err != nil {
		_ = tx.Rollback()
		return apperrors.Storage("prepare price insert", err)
	}

	for _, p := range rows {
		var tickerID interface{}
		if p.TickerID != nil {
			tickerID = *p.TickerID
		}
		if _, err := stmt.ExecContext(ctx,
			FormatTimestamp(p.Timestamp), tickerID, p.Open, p.High, p.Low, p.Close, p.Volume,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return apperrors.Storage("insert prices", err)
		}
	}

	if r.dialect == Postgres {
		// Flush the COPY buffer.
		if _, err := stmt.ExecContext(ctx); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return apperrors.Storage("insert prices", err)
		}
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return apperrors.Storage("insert prices", err)
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Storage("commit prices", err)
	}
	return nil
}

// SizeBytes reports the on-disk footprint of the store.
func (r *sqlRepository) SizeBytes(ctx context.Context) (int64, error) {
	q := `SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()`
	if r.dialect == Postgres {
		q = `SELECT pg_total_relation_size('prices') + pg_total_relation_size('tickers')`
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, apperrors.Storage("size", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
