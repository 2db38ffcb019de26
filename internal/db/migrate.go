package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending up migrations for the database behind rawURL.
// It uses its own connection, closed before returning.
func Migrate(rawURL string, log *zap.SugaredLogger) error {
	src, err := ParseURL(rawURL)
	if err != nil {
		return err
	}

	files, err := iofs.New(migrationsFS, "migrations/"+src.Dialect)
	if err != nil {
		return fmt.Errorf("load %s migrations: %w", src.Dialect, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", files, src.MigrateURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Infow("schema is up to date", "dialect", src.Dialect)
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Infow("schema migrated", "dialect", src.Dialect, "version", version, "dirty", dirty)
	return nil
}
