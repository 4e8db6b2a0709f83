package main

//
//  @title           barstore API
//  @version         1.0
//  @description     Read-only queries over OHLCV bars stored in a relational database and a partitioned Parquet dataset.
//  @termsOfService  https://github.com/guttosm/barstore
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/barstore
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        relational
//  @tag.description Canned queries over the relational store
//
//  @tag.name        columnar
//  @tag.description Rolling statistics over the partitioned dataset
//
//  @tag.name        benchmark
//  @tag.description Backend size and latency comparison
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/barstore/config"
	_ "github.com/guttosm/barstore/docs" // swagger docs
	"github.com/guttosm/barstore/internal/app"
	"github.com/guttosm/barstore/internal/benchmark"
	"github.com/guttosm/barstore/internal/logger"
	"github.com/guttosm/barstore/internal/metrics"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runBatch executes the ingest and/or report steps selected by mode.
func runBatch(ctx context.Context, mode string, cfg config.Config) error {
	m := metrics.New()

	if mode == "ingest" || mode == "all" {
		res, err := app.RunIngest(ctx, cfg, m)
		if err != nil {
			return err
		}
		logger.L().Info().Str("run_id", res.RunID).Int("rows", res.Rows).Msg("ingestion completed successfully")
	}

	if mode == "report" || mode == "all" {
		rep, err := app.RunReport(ctx, cfg, m)
		if err != nil {
			return err
		}
		c := rep.Comparison
		logger.L().Info().
			Str("relational_size", benchmark.FormatMB(c.RelationalBytes)).
			Str("columnar_size", benchmark.FormatMB(c.ColumnarBytes)).
			Float64("speedup", c.Speedup()).
			Msg("report completed")
	}
	return nil
}

// main is the entry point of the barstore application.
//
// Modes (selected via --mode flag):
//   - ingest: validate the market data and rebuild both stores.
//   - report: run the canned queries and the backend comparison.
//   - all:    ingest, then report.
//   - api:    serve the canned queries over HTTP.
//
// Flags:
//   - --mode:   Execution mode. Default: "all".
//   - --market: Market data file (CSV or XLSX). Defaults to MARKET_DATA_FILE.
//   - --tickers: Ticker file. Defaults to TICKERS_FILE.
//   - --port:   Port for the API server. Defaults to SERVER_PORT.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	config.LoadConfig()
	logger.Init()

	mode := flag.String("mode", "all", "Mode: ingest, report, all or api")
	market := flag.String("market", config.AppConfig.Input.MarketDataFile, "Market data file (CSV or XLSX)")
	tickers := flag.String("tickers", config.AppConfig.Input.TickersFile, "Ticker file")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	cfg := config.AppConfig
	cfg.Input.MarketDataFile = *market
	cfg.Input.TickersFile = *tickers

	switch *mode {
	case "ingest", "report", "all":
		logger.L().Info().Str("mode", *mode).Msg("running batch")
		err := runBatch(ctx, *mode, cfg)
		stop()
		if err != nil {
			logger.L().Fatal().Err(err).Str("mode", *mode).Msg("run failed")
		}

	case "api":
		stop()
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(context.Background(), server, cleanup)

	default:
		stop()
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
