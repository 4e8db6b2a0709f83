package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/barstore/internal/domain/models"
)

func minuteBars(symbol string, closes ...float64) []models.Bar {
	base := time.Date(2025, 11, 17, 9, 30, 0, 0, time.UTC)
	out := make([]models.Bar, len(closes))
	for i, c := range closes {
		out[i] = models.Bar{Timestamp: base.Add(time.Duration(i) * time.Minute), Symbol: symbol, Close: c}
	}
	return out
}

func TestRollingMeanClose(t *testing.T) {
	pts, err := RollingMeanClose(minuteBars("AAPL", 1, 2, 3, 4, 5, 6, 7), 5)
	require.NoError(t, err)
	require.Len(t, pts, 7)

	for i := 0; i < 4; i++ {
		assert.False(t, pts[i].Valid, "row %d", i)
		assert.Equal(t, 0.0, pts[i].Rolling)
	}
	assert.True(t, pts[4].Valid)
	assert.InDelta(t, 3.0, pts[4].Rolling, 1e-12)
	assert.InDelta(t, 4.0, pts[5].Rolling, 1e-12)
	assert.InDelta(t, 5.0, pts[6].Rolling, 1e-12)
	assert.Equal(t, 7.0, pts[6].Value)
	assert.Equal(t, "AAPL", pts[6].Symbol)
}

func TestRollingMeanClose_ShortSeriesAndBadWindow(t *testing.T) {
	pts, err := RollingMeanClose(minuteBars("AAPL", 1, 2, 3), 5)
	require.NoError(t, err)
	require.Len(t, pts, 3)
	for _, p := range pts {
		assert.False(t, p.Valid)
	}

	pts, err = RollingMeanClose(nil, 5)
	require.NoError(t, err)
	assert.Empty(t, pts)

	pts, err = RollingMeanClose(minuteBars("AAPL", 4, 8), 1)
	require.NoError(t, err)
	assert.True(t, pts[0].Valid)
	assert.InDelta(t, 8.0, pts[1].Rolling, 1e-12)

	_, err = RollingMeanClose(minuteBars("AAPL", 1), 0)
	assert.Error(t, err)
}

// dailyBars builds two bars per day; the second close of each day is the one
// that counts.
func dailyBars(symbol string, closes ...float64) []models.Bar {
	var out []models.Bar
	day := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		d := day.AddDate(0, 0, i)
		out = append(out,
			models.Bar{Timestamp: d.Add(15*time.Hour + 59*time.Minute), Symbol: symbol, Close: c},
			models.Bar{Timestamp: d.Add(9*time.Hour + 30*time.Minute), Symbol: symbol, Close: c * 0.5},
		)
	}
	return out
}

func naiveSampleStd(x []float64) float64 {
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	var ss float64
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(x)-1))
}

func TestDailyReturnVolatility(t *testing.T) {
	closes := []float64{100, 110, 99, 108.9, 108.9, 119.79, 113.8}
	bars := append(dailyBars("MSFT", closes...), dailyBars("AAPL", 10, 11)...)

	pts, err := DailyReturnVolatility(bars, 5)
	require.NoError(t, err)

	// AAPL: one return, never a full window.
	require.Len(t, pts, 1+6)
	assert.Equal(t, "AAPL", pts[0].Symbol)
	assert.InDelta(t, 0.1, pts[0].Value, 1e-12)
	assert.False(t, pts[0].Valid)

	msft := pts[1:]
	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = closes[i]/closes[i-1] - 1
	}
	for i, p := range msft {
		assert.Equal(t, "MSFT", p.Symbol)
		assert.InDelta(t, returns[i], p.Value, 1e-12)
		assert.Equal(t, time.Date(2025, 11, 4+i, 0, 0, 0, 0, time.UTC), p.Timestamp)
		if i < 4 {
			assert.False(t, p.Valid, "return %d", i)
			continue
		}
		require.True(t, p.Valid, "return %d", i)
		assert.InDelta(t, naiveSampleStd(returns[i-4:i+1]), p.Rolling, 1e-9)
	}
}

func TestDailyReturnVolatility_Edges(t *testing.T) {
	_, err := DailyReturnVolatility(dailyBars("AAPL", 1, 2), 1)
	assert.Error(t, err)

	pts, err := DailyReturnVolatility(dailyBars("AAPL", 1), 5)
	require.NoError(t, err)
	assert.Empty(t, pts)

	// Constant returns have zero volatility.
	pts, err = DailyReturnVolatility(dailyBars("AAPL", 1, 2, 4, 8), 3)
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.True(t, pts[2].Valid)
	assert.InDelta(t, 0.0, pts[2].Rolling, 1e-9)
}

func TestDailyReturnVolatility_SkipsDaysWithoutBars(t *testing.T) {
	fri := time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2025, 11, 17, 0, 0, 0, 0, time.UTC)
	tue := time.Date(2025, 11, 18, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		{Timestamp: fri.Add(16 * time.Hour), Symbol: "AAPL", Close: 100},
		{Timestamp: mon.Add(16 * time.Hour), Symbol: "AAPL", Close: 110},
		{Timestamp: tue.Add(16 * time.Hour), Symbol: "AAPL", Close: 99},
	}

	pts, err := DailyReturnVolatility(bars, 2)
	require.NoError(t, err)

	// The weekend contributes no points and no zero returns: Monday's return
	// is taken against Friday's close.
	require.Len(t, pts, 2)
	assert.Equal(t, mon, pts[0].Timestamp)
	assert.InDelta(t, 0.1, pts[0].Value, 1e-12)
	assert.False(t, pts[0].Valid)

	assert.Equal(t, tue, pts[1].Timestamp)
	assert.InDelta(t, -0.1, pts[1].Value, 1e-12)
	require.True(t, pts[1].Valid)
	assert.InDelta(t, naiveSampleStd([]float64{0.1, -0.1}), pts[1].Rolling, 1e-9)
}

func TestDailyReturnVolatility_ZeroCloseIsUndefined(t *testing.T) {
	pts, err := DailyReturnVolatility(dailyBars("PENNY", 1, 0, 2, 4, 8, 16), 2)
	require.NoError(t, err)
	require.Len(t, pts, 5)

	for _, p := range pts {
		assert.False(t, math.IsInf(p.Value, 0) || math.IsNaN(p.Value), "value %v", p.Value)
		assert.False(t, math.IsInf(p.Rolling, 0) || math.IsNaN(p.Rolling), "rolling %v", p.Rolling)
	}

	// Return after the zero close (index 1) is undefined and reported as 0.
	assert.Equal(t, 0.0, pts[1].Value)
	// Windows [0,1] and [1,2] contain it.
	assert.False(t, pts[1].Valid)
	assert.False(t, pts[2].Valid)
	// Window [2,3] is clean again: returns 1 and 1.
	require.True(t, pts[3].Valid)
	assert.InDelta(t, 0.0, pts[3].Rolling, 1e-9)
	assert.True(t, pts[4].Valid)
}
