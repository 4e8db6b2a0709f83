package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/barstore/config"
	"github.com/guttosm/barstore/internal/api"
	"github.com/guttosm/barstore/internal/benchmark"
	"github.com/guttosm/barstore/internal/columnar"
	"github.com/guttosm/barstore/internal/metrics"
	"github.com/guttosm/barstore/internal/service"
	"github.com/guttosm/barstore/internal/storage"
)

// InitializeApp sets up all API dependencies from config.AppConfig and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Opens the relational backend selected by DB_DRIVER.
//   - Builds the repository, the columnar store and the report service.
//   - Configures the Gin router with all API routes and /metrics.
//   - Registers health and readiness probes for both backends.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig
	ctx := context.Background()

	db, dialect, err := dbOpener(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s: %w", cfg.Database.Driver, err)
	}

	m := metrics.New()
	repo := storage.NewRepository(db, dialect)
	store := columnar.NewStore(cfg.Parquet.Dir, cfg.Parquet.Parallel, m)
	svc := service.NewReportService(repo, store, benchmark.NewComparer(repo, store, m), m)

	router := api.NewRouter(api.NewHandler(svc), m)

	api.NewHealthHandler(
		api.Check{Name: "relational", Fn: repo.Ping},
		api.Check{Name: "columnar", Fn: func(context.Context) error {
			_, err := os.Stat(store.Root)
			return err
		}},
	).Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
