package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/guttosm/barstore/internal/apperrors"
	"github.com/guttosm/barstore/internal/domain/models"
)

const pricesInRangeSQL = `
	SELECT p.timestamp, t.symbol, p.open, p.high, p.low, p.close, p.volume
	FROM prices p
	JOIN tickers t ON p.ticker_id = t.ticker_id
	WHERE t.symbol = ?
	  AND p.timestamp >= ?
	  AND p.timestamp <= ?
	ORDER BY p.timestamp`

const fetchSymbolSQL = `
	SELECT p.timestamp, t.symbol, p.open, p.high, p.low, p.close, p.volume
	FROM prices p
	JOIN tickers t ON p.ticker_id = t.ticker_id
	WHERE t.symbol = ?`

// Average of the per-day summed volume. SUBSTR(timestamp, 1, 10) is the UTC day.
const averageDailyVolumeSQL = `
	WITH daily_volume AS (
		SELECT t.symbol,
		       SUBSTR(p.timestamp, 1, 10) AS trade_date,
		       SUM(p.volume) AS total_daily_volume
		FROM prices p
		JOIN tickers t ON p.ticker_id = t.ticker_id
		GROUP BY t.symbol, SUBSTR(p.timestamp, 1, 10)
	)
	SELECT symbol, AVG(total_daily_volume) AS average_daily_volume
	FROM daily_volume
	GROUP BY symbol
	ORDER BY symbol`

const topReturnsSQL = `
	WITH first_prices AS (
		SELECT ticker_id, open AS first_price
		FROM prices
		WHERE (ticker_id, timestamp) IN (
			SELECT ticker_id, MIN(timestamp) FROM prices GROUP BY ticker_id
		)
	),
	last_prices AS (
		SELECT ticker_id, close AS last_price
		FROM prices
		WHERE (ticker_id, timestamp) IN (
			SELECT ticker_id, MAX(timestamp) FROM prices GROUP BY ticker_id
		)
	)
	SELECT t.symbol,
	       fp.first_price,
	       lp.last_price,
	       ((lp.last_price / NULLIF(fp.first_price, 0)) - 1.0) * 100.0 AS percentage_return
	FROM tickers t
	JOIN first_prices fp ON t.ticker_id = fp.ticker_id
	JOIN last_prices lp ON t.ticker_id = lp.ticker_id
	ORDER BY percentage_return DESC NULLS LAST, t.symbol
	LIMIT ?`

const dailyFirstLastSQL = `
	WITH daily AS (
		SELECT ticker_id,
		       SUBSTR(timestamp, 1, 10) AS trade_date,
		       open,
		       close,
		       ROW_NUMBER() OVER (PARTITION BY ticker_id, SUBSTR(timestamp, 1, 10) ORDER BY timestamp ASC) AS rn_first,
		       ROW_NUMBER() OVER (PARTITION BY ticker_id, SUBSTR(timestamp, 1, 10) ORDER BY timestamp DESC) AS rn_last
		FROM prices
	),
	first_price AS (
		SELECT ticker_id, trade_date, open AS first_price FROM daily WHERE rn_first = 1
	),
	last_price AS (
		SELECT ticker_id, trade_date, close AS last_price FROM daily WHERE rn_last = 1
	)
	SELECT t.symbol, f.trade_date, f.first_price, l.last_price
	FROM tickers t
	JOIN first_price f ON t.ticker_id = f.ticker_id
	JOIN last_price l ON t.ticker_id = l.ticker_id AND f.trade_date = l.trade_date
	ORDER BY t.symbol, f.trade_date`

// PricesInRange returns every bar of symbol with from <= timestamp <= to,
// ordered by timestamp. Both bounds are inclusive.
func (r *sqlRepository) PricesInRange(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(pricesInRangeSQL),
		symbol, FormatTimestamp(from), FormatTimestamp(to))
	if err != nil {
		return nil, apperrors.Storage("prices in range", err)
	}
	return scanBars(rows, "prices in range")
}

// FetchSymbol returns every bar of symbol in storage order.
func (r *sqlRepository) FetchSymbol(ctx context.Context, symbol string) ([]models.Bar, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(fetchSymbolSQL), symbol)
	if err != nil {
		return nil, apperrors.Storage("fetch symbol", err)
	}
	return scanBars(rows, "fetch symbol")
}

// AverageDailyVolume returns, per symbol, the mean of its total daily volume.
func (r *sqlRepository) AverageDailyVolume(ctx context.Context) ([]models.DailyVolume, error) {
	rows, err := r.db.QueryContext(ctx, averageDailyVolumeSQL)
	if err != nil {
		return nil, apperrors.Storage("average daily volume", err)
	}
	defer rows.Close()

	var out []models.DailyVolume
	for rows.Next() {
		var v models.DailyVolume
		if err := rows.Scan(&v.Symbol, &v.AverageDailyVolume); err != nil {
			return nil, apperrors.Storage("scan daily volume", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("average daily volume", err)
	}
	return out, nil
}

// TopReturns ranks symbols by (last close / first open - 1) * 100 over the
// full stored period and returns the best n. A symbol whose first open is zero
// has no return and ranks last.
func (r *sqlRepository) TopReturns(ctx context.Context, n int) ([]models.PeriodReturn, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(topReturnsSQL), n)
	if err != nil {
		return nil, apperrors.Storage("top returns", err)
	}
	defer rows.Close()

	var out []models.PeriodReturn
	for rows.Next() {
		var (
			pr  models.PeriodReturn
			pct sql.NullFloat64
		)
		if err := rows.Scan(&pr.Symbol, &pr.FirstPrice, &pr.LastPrice, &pct); err != nil {
			return nil, apperrors.Storage("scan top returns", err)
		}
		if pct.Valid {
			pr.PercentageReturn = &pct.Float64
		}
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("top returns", err)
	}
	return out, nil
}

// DailyFirstLast returns, per symbol and UTC day, the open of the first bar
// and the close of the last bar.
func (r *sqlRepository) DailyFirstLast(ctx context.Context) ([]models.DailyFirstLast, error) {
	rows, err := r.db.QueryContext(ctx, dailyFirstLastSQL)
	if err != nil {
		return nil, apperrors.Storage("daily first last", err)
	}
	defer rows.Close()

	var out []models.DailyFirstLast
	for rows.Next() {
		var d models.DailyFirstLast
		if err := rows.Scan(&d.Symbol, &d.TradeDate, &d.FirstPrice, &d.LastPrice); err != nil {
			return nil, apperrors.Storage("scan daily first last", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("daily first last", err)
	}
	return out, nil
}

func scanBars(rows *sql.Rows, op string) ([]models.Bar, error) {
	defer rows.Close()

	var out []models.Bar
	for rows.Next() {
		var (
			b  models.Bar
			ts string
		)
		if err := rows.Scan(&ts, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, apperrors.Storage(op, err)
		}
		t, err := parseTimestamp(ts)
		if err != nil {
			return nil, apperrors.Storage(op, err)
		}
		b.Timestamp = t
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage(op, err)
	}
	return out, nil
}
