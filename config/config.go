package config

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system:
// input files, the relational store, the columnar store, canned report parameters
// and the optional HTTP server.
//
// Example ENV equivalent:
//
//	MARKET_DATA_FILE=market_data_multi.csv
//	TICKERS_FILE=tickers.csv
//	DB_DRIVER=sqlite
//	SQLITE_PATH=market_data.db
//	PARQUET_DIR=market_data_parquet
//	SERVER_PORT=8080
type Config struct {
	Input    InputConfig    // Source files
	Database DatabaseConfig // Relational backend
	Postgres PostgresConfig // PostgreSQL connection settings (DB_DRIVER=postgres)
	Parquet  ParquetConfig  // Columnar backend
	Report   ReportConfig   // Parameters of the canned queries and benchmark
	Server   ServerConfig   // HTTP server configuration
}

// InputConfig points at the two tabular inputs of a run.
type InputConfig struct {
	MarketDataFile string `validate:"required"`
	TickersFile    string `validate:"required"`
}

// DatabaseConfig selects the relational dialect and its schema script.
//
// Fields:
//   - Driver: "sqlite" (file store, default) or "postgres".
//   - SQLitePath: database file, destructively rebuilt on every ingest run.
//   - SchemaFile: executable schema script; defaults to db/schema/<driver>.sql.
//   - BatchSize: rows per insert transaction.
type DatabaseConfig struct {
	Driver     string `validate:"required,oneof=sqlite postgres"`
	SQLitePath string `validate:"required_if=Driver sqlite"`
	SchemaFile string `validate:"required"`
	BatchSize  int    `validate:"gte=1"`
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// ParquetConfig configures the partitioned dataset.
type ParquetConfig struct {
	Dir      string `validate:"required"`
	Parallel int    `validate:"gte=1,lte=16"`
}

// ReportConfig carries the parameters of the canned queries.
type ReportConfig struct {
	Symbol           string `validate:"required"`
	From             string `validate:"omitempty,datetime=2006-01-02"`
	To               string `validate:"omitempty,datetime=2006-01-02"`
	TopN             int    `validate:"gte=1"`
	RollingSymbol    string `validate:"required"`
	RollingWindow    int    `validate:"gte=1"`
	VolatilityWindow int    `validate:"gte=2"`
	BenchSymbol      string `validate:"required"`
	BenchRuns        int    `validate:"gte=1"`
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string `validate:"required"`
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() in main and then passed explicitly to
// each component; packages below cmd never read it directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	v := viper.New()
	setDefaults(v)

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore error if no .env

	v.AutomaticEnv()

	AppConfig = fromViper(v)
	validateConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MARKET_DATA_FILE", "market_data_multi.csv")
	v.SetDefault("TICKERS_FILE", "tickers.csv")

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("SQLITE_PATH", "market_data.db")
	v.SetDefault("SCHEMA_FILE", "")
	v.SetDefault("INSERT_BATCH_SIZE", 5000)

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "barstore")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	v.SetDefault("PARQUET_DIR", "market_data_parquet")
	v.SetDefault("PARQUET_PARALLEL", 1)

	v.SetDefault("REPORT_SYMBOL", "TSLA")
	v.SetDefault("REPORT_FROM", "2025-11-17")
	v.SetDefault("REPORT_TO", "2025-11-18")
	v.SetDefault("REPORT_TOP_N", 3)
	v.SetDefault("ROLLING_SYMBOL", "AAPL")
	v.SetDefault("ROLLING_WINDOW", 5)
	v.SetDefault("VOLATILITY_WINDOW", 5)
	v.SetDefault("BENCH_SYMBOL", "TSLA")
	v.SetDefault("BENCH_RUNS", 10)

	v.SetDefault("SERVER_PORT", "8080")
}

func fromViper(v *viper.Viper) Config {
	cfg := Config{
		Input: InputConfig{
			MarketDataFile: v.GetString("MARKET_DATA_FILE"),
			TickersFile:    v.GetString("TICKERS_FILE"),
		},
		Database: DatabaseConfig{
			Driver:     v.GetString("DB_DRIVER"),
			SQLitePath: v.GetString("SQLITE_PATH"),
			SchemaFile: v.GetString("SCHEMA_FILE"),
			BatchSize:  v.GetInt("INSERT_BATCH_SIZE"),
		},
		Postgres: PostgresConfig{
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
		Parquet: ParquetConfig{
			Dir:      v.GetString("PARQUET_DIR"),
			Parallel: v.GetInt("PARQUET_PARALLEL"),
		},
		Report: ReportConfig{
			Symbol:           v.GetString("REPORT_SYMBOL"),
			From:             v.GetString("REPORT_FROM"),
			To:               v.GetString("REPORT_TO"),
			TopN:             v.GetInt("REPORT_TOP_N"),
			RollingSymbol:    v.GetString("ROLLING_SYMBOL"),
			RollingWindow:    v.GetInt("ROLLING_WINDOW"),
			VolatilityWindow: v.GetInt("VOLATILITY_WINDOW"),
			BenchSymbol:      v.GetString("BENCH_SYMBOL"),
			BenchRuns:        v.GetInt("BENCH_RUNS"),
		},
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
	}

	if cfg.Database.SchemaFile == "" {
		cfg.Database.SchemaFile = filepath.Join("db", "schema", cfg.Database.Driver+".sql")
	}

	// Construct Postgres DSN (used by database/sql)
	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
	return cfg
}

// Validate checks cfg against its struct tags and the PostgreSQL settings when
// DB_DRIVER=postgres. It returns the names of all offending fields.
func Validate(cfg Config) error {
	var missing []string

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			missing = append(missing, fe.Namespace())
		}
	}

	if cfg.Database.Driver == "postgres" {
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("invalid configuration: %v", missing)
	}
	return nil
}

// validateConfig terminates the application when AppConfig is invalid.
func validateConfig() {
	if err := Validate(AppConfig); err != nil {
		log.Fatalf("❌ %v\n", err)
	}
}
