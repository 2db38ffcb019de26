package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/sbilibin2017/bestellsystem/internal/app"
	"github.com/sbilibin2017/bestellsystem/internal/config"
	"github.com/sbilibin2017/bestellsystem/internal/db"
	"github.com/sbilibin2017/bestellsystem/internal/logger"
	"github.com/sbilibin2017/bestellsystem/internal/metrics"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const shutdownTimeout = 10 * time.Second

// @title bestellsystem API
// @version 1.0.0
// @description Backend skeleton of the bestellsystem ordering service
// @BasePath /api/v1
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file, if present,
// and resolves the selected profile. Variables already set in the
// environment take precedence over the file.
func parseConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return config.Load()
}

// run initializes the logger, migrates and opens the database, and serves HTTP
// until the context is cancelled or a termination signal arrives.
func run(ctx context.Context, cfg *config.Config) error {
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat, zapcore.Lock(os.Stdout)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.Named("bestellsystem")
	defer log.Sync()
	log.Infow("Logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat, "profile", cfg.Profile)

	if cfg.Profile == config.ProfileProduction && cfg.SecretKey == config.DefaultSecretKey {
		log.Warn("SECRET_KEY is not set, using the development default")
	}

	if err := db.Migrate(cfg.DatabaseURL, log.Named("db")); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	database, err := db.Open(cfg.DatabaseURL, db.Options{
		PoolSize:    cfg.DBPoolSize,
		MaxOverflow: cfg.DBMaxOverflow,
	})
	if err != nil {
		return fmt.Errorf("database open failed: %w", err)
	}
	defer database.Close()
	if err := db.Check(ctx, database); err != nil {
		return err
	}

	srv := app.Server(cfg, app.New(cfg, log, metrics.New()))

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		log.Infow("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
