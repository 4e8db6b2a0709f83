// Package analytics computes the rolling statistics served from the columnar
// dataset. Series are computed with go-talib.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/markcheno/go-talib"

	"github.com/guttosm/barstore/internal/domain/models"
)

// DefaultWindow is the window of both canned rolling queries.
const DefaultWindow = 5

// RollingMeanClose returns one point per bar with the mean close of the last
// window bars. Bars must belong to one symbol and be in timestamp order. The
// first window-1 points are not valid; their Rolling is 0.
func RollingMeanClose(bars []models.Bar, window int) ([]models.RollingPoint, error) {
	if window < 1 {
		return nil, fmt.Errorf("rolling mean: window must be >= 1, got %d", window)
	}
	out := make([]models.RollingPoint, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = models.RollingPoint{Timestamp: b.Timestamp, Symbol: b.Symbol, Value: b.Close}
		closes[i] = b.Close
	}
	if len(bars) < window {
		return out, nil
	}

	sma := talib.Sma(closes, window)
	for i := window - 1; i < len(out); i++ {
		out[i].Rolling = sma[i]
		out[i].Valid = true
	}
	return out, nil
}

// DailyReturnVolatility computes, per symbol, the last close of every UTC
// trading day, the day-over-day fractional return, and the sample standard
// deviation of the last window returns.
//
// One point is returned per day that has a previous trading day: Value is the
// return, Rolling the volatility (valid once window returns exist). Points are
// ordered by symbol, then day. Calendar days without bars are skipped, not
// filled.
//
// A return after a zero close is undefined: its Value is 0 and no window that
// contains it is valid.
func DailyReturnVolatility(bars []models.Bar, window int) ([]models.RollingPoint, error) {
	if window < 2 {
		return nil, fmt.Errorf("volatility: window must be >= 2, got %d", window)
	}

	bySymbol := map[string][]models.Bar{}
	for _, b := range bars {
		bySymbol[b.Symbol] = append(bySymbol[b.Symbol], b)
	}
	symbols := make([]string, 0, len(bySymbol))
	for s := range bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	var out []models.RollingPoint
	for _, symbol := range symbols {
		days, closes := dailyLastClose(bySymbol[symbol])
		if len(closes) < 2 {
			continue
		}

		returns := make([]float64, len(closes)-1)
		undefined := make([]bool, len(returns))
		for i := 1; i < len(closes); i++ {
			if closes[i-1] == 0 {
				undefined[i-1] = true
				continue
			}
			returns[i-1] = closes[i]/closes[i-1] - 1
		}

		var vol []float64
		if len(returns) >= window {
			vol = sampleStdDev(returns, window)
		}
		lastUndefined := -1
		for i, r := range returns {
			if undefined[i] {
				lastUndefined = i
			}
			p := models.RollingPoint{Timestamp: days[i+1], Symbol: symbol, Value: r}
			if vol != nil && i >= window-1 && lastUndefined <= i-window && !math.IsNaN(vol[i]) {
				p.Rolling = vol[i]
				p.Valid = true
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// dailyLastClose returns the UTC days present in bars and the close of the
// latest bar of each day, both ascending.
func dailyLastClose(bars []models.Bar) ([]time.Time, []float64) {
	sorted := append([]models.Bar(nil), bars...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var (
		days   []time.Time
		closes []float64
	)
	for _, b := range sorted {
		ts := b.Timestamp.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		if n := len(days); n > 0 && days[n-1].Equal(day) {
			closes[n-1] = b.Close
			continue
		}
		days = append(days, day)
		closes = append(closes, b.Close)
	}
	return days, closes
}

// sampleStdDev is the rolling (n-1)-normalized standard deviation.
// talib.StdDev is population-normalized, so it is rescaled.
func sampleStdDev(x []float64, window int) []float64 {
	std := talib.StdDev(x, window, 1)
	scale := math.Sqrt(float64(window) / float64(window-1))
	for i := range std {
		std[i] *= scale
	}
	return std
}
