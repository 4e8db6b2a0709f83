package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/barstore/internal/analytics"
	"github.com/guttosm/barstore/internal/benchmark"
	"github.com/guttosm/barstore/internal/domain/dto"
	"github.com/guttosm/barstore/internal/middleware"
	"github.com/guttosm/barstore/internal/service"
)

// Query parameter defaults and bounds.
const (
	defaultTopN = 3
	maxTopN     = 100
	maxWindow   = 1000
	maxRuns     = 100
)

// Handler serves the canned queries of both storage backends.
//
// Responsibilities:
//   - Validate incoming query parameters
//   - Delegate to the report service
//   - Translate results into response DTOs with the right status code
type Handler struct {
	svc service.ReportService
}

// NewHandler constructs a Handler over svc.
func NewHandler(svc service.ReportService) *Handler {
	return &Handler{svc: svc}
}

// GetPrices godoc
// @Summary      Price bars of one symbol in a date range
// @Description  Returns the bars of symbol between the start of day from and the end of day to (UTC), ordered by timestamp
// @Tags         relational
// @Produce      json
// @Param        symbol  query     string  true  "Ticker symbol" example(TSLA)
// @Param        from    query     string  true  "First day, YYYY-MM-DD" example(2025-11-17)
// @Param        to      query     string  true  "Last day, YYYY-MM-DD" example(2025-11-18)
// @Success      200     {object}  dto.PricesResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/v1/prices [get]
func (h *Handler) GetPrices(c *gin.Context) {
	symbol, ok := requiredSymbol(c)
	if !ok {
		return
	}
	from, err := time.Parse(service.DateLayout, c.Query("from"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid from, expected YYYY-MM-DD", err)
		return
	}
	to, err := time.Parse(service.DateLayout, c.Query("to"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid to, expected YYYY-MM-DD", err)
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("to must not be before from", nil))
		return
	}

	bars, err := h.svc.Prices(c.Request.Context(), symbol, from, to)
	if err != nil {
		fail(c, "failed to fetch prices", err)
		return
	}
	if len(bars) == 0 {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no data found", nil))
		return
	}

	c.JSON(http.StatusOK, dto.PricesResponse{
		Symbol: symbol,
		From:   from.Format(service.DateLayout),
		To:     to.Format(service.DateLayout),
		Count:  len(bars),
		Bars:   bars,
	})
}

// GetDailyAverageVolume godoc
// @Summary      Average daily volume per symbol
// @Description  Sums volume per symbol and day, then averages the daily sums per symbol
// @Tags         relational
// @Produce      json
// @Success      200  {object}  dto.DailyVolumeResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/volume/daily-average [get]
func (h *Handler) GetDailyAverageVolume(c *gin.Context) {
	items, err := h.svc.AverageDailyVolume(c.Request.Context())
	if err != nil {
		fail(c, "failed to compute daily volume", err)
		return
	}
	c.JSON(http.StatusOK, dto.DailyVolumeResponse{Items: items})
}

// GetTopReturns godoc
// @Summary      Top symbols by whole-period return
// @Description  Return from the first open to the last close of each symbol, best first
// @Tags         relational
// @Produce      json
// @Param        n    query     int  false  "Number of symbols (1-100)" default(3)
// @Success      200  {object}  dto.TopReturnsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/returns/top [get]
func (h *Handler) GetTopReturns(c *gin.Context) {
	n, ok := intParam(c, "n", defaultTopN, 1, maxTopN)
	if !ok {
		return
	}
	items, err := h.svc.TopReturns(c.Request.Context(), n)
	if err != nil {
		fail(c, "failed to compute returns", err)
		return
	}
	c.JSON(http.StatusOK, dto.TopReturnsResponse{N: n, Items: items})
}

// GetDailyFirstLast godoc
// @Summary      First and last price per symbol and day
// @Description  First open and last close of every symbol on every trading day
// @Tags         relational
// @Produce      json
// @Success      200  {object}  dto.DailyFirstLastResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/prices/daily-first-last [get]
func (h *Handler) GetDailyFirstLast(c *gin.Context) {
	items, err := h.svc.DailyFirstLast(c.Request.Context())
	if err != nil {
		fail(c, "failed to compute daily first/last prices", err)
		return
	}
	c.JSON(http.StatusOK, dto.DailyFirstLastResponse{Items: items})
}

// GetRollingMean godoc
// @Summary      Rolling mean close of one symbol
// @Description  Reads timestamp, symbol and close from the symbol's partition only; rolling is null until the window fills
// @Tags         columnar
// @Produce      json
// @Param        symbol  query     string  true   "Ticker symbol" example(AAPL)
// @Param        window  query     int     false  "Window in bars" default(5)
// @Success      200     {object}  dto.RollingResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/v1/columnar/rolling-mean [get]
func (h *Handler) GetRollingMean(c *gin.Context) {
	symbol, ok := requiredSymbol(c)
	if !ok {
		return
	}
	window, ok := intParam(c, "window", analytics.DefaultWindow, 1, maxWindow)
	if !ok {
		return
	}

	pts, err := h.svc.RollingMeanClose(c.Request.Context(), symbol, window)
	if err != nil {
		fail(c, "failed to compute rolling mean", err)
		return
	}
	if len(pts) == 0 {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no data found", nil))
		return
	}
	c.JSON(http.StatusOK, dto.NewRollingResponse(window, pts))
}

// GetVolatility godoc
// @Summary      Rolling volatility of daily returns
// @Description  Per symbol, daily close-to-close returns and their rolling sample standard deviation
// @Tags         columnar
// @Produce      json
// @Param        window  query     int  false  "Window in daily returns (>= 2)" default(5)
// @Success      200     {object}  dto.RollingResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/v1/columnar/volatility [get]
func (h *Handler) GetVolatility(c *gin.Context) {
	window, ok := intParam(c, "window", analytics.DefaultWindow, 2, maxWindow)
	if !ok {
		return
	}
	pts, err := h.svc.Volatility(c.Request.Context(), window)
	if err != nil {
		fail(c, "failed to compute volatility", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRollingResponse(window, pts))
}

// GetCompare godoc
// @Summary      Compare relational and columnar backends
// @Description  Storage size of both backends and mean latency of reading every bar of one symbol
// @Tags         benchmark
// @Produce      json
// @Param        symbol  query     string  true   "Ticker symbol" example(TSLA)
// @Param        runs    query     int     false  "Timed reads per backend (1-100)" default(10)
// @Success      200     {object}  dto.CompareResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/v1/compare [get]
func (h *Handler) GetCompare(c *gin.Context) {
	symbol, ok := requiredSymbol(c)
	if !ok {
		return
	}
	runs, ok := intParam(c, "runs", benchmark.DefaultRuns, 1, maxRuns)
	if !ok {
		return
	}
	res, err := h.svc.Compare(c.Request.Context(), symbol, runs)
	if err != nil {
		fail(c, "failed to compare backends", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCompareResponse(res))
}

func requiredSymbol(c *gin.Context) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("symbol is required", nil))
		return "", false
	}
	return symbol, true
}

// intParam reads an optional integer query parameter within [lo, hi].
func intParam(c *gin.Context, name string, def, lo, hi int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err == nil && (v < lo || v > hi) {
		err = fmt.Errorf("must be between %d and %d", lo, hi)
	}
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return v, true
}

func fail(c *gin.Context, msg string, err error) {
	middleware.AbortWithError(c, middleware.StatusFor(err), msg, err)
}
