// Package db opens the pooled database handle and materialises the schema.
package db

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported dialects. Each has its own migrations directory.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// pgUniqueViolation is the SQLSTATE of unique_violation.
const pgUniqueViolation = "23505"

// DefaultPingTimeout bounds the liveness check done by Check.
const DefaultPingTimeout = 5 * time.Second

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Source describes how to reach a database given its URL.
type Source struct {
	Dialect    string // postgres or sqlite
	Driver     string // database/sql driver name
	DSN        string // driver-specific data source name
	MigrateURL string // URL understood by golang-migrate
}

// ParseURL accepts postgres://, postgresql:// and sqlite:// URLs.
// For SQLite both "sqlite://app.db" and "sqlite:///./app.db" are relative paths,
// "sqlite:////var/lib/app.db" is absolute.
func ParseURL(raw string) (Source, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("invalid database url: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return Source{
			Dialect:    DialectPostgres,
			Driver:     "pgx",
			DSN:        raw,
			MigrateURL: "pgx5" + strings.TrimPrefix(raw, u.Scheme),
		}, nil
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(raw, u.Scheme+"://")
		if strings.HasPrefix(path, "/") {
			path = strings.TrimPrefix(path, "/")
		}
		if path == "" || strings.HasPrefix(path, "?") {
			return Source{}, errors.New("invalid database url: missing sqlite file path")
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return Source{
			Dialect:    DialectSQLite,
			Driver:     "sqlite",
			DSN:        path + sep + "_pragma=busy_timeout(5000)",
			MigrateURL: "sqlite://" + path,
		}, nil
	default:
		return Source{}, fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}
}

// Options configures the connection pool.
type Options struct {
	PoolSize    int // idle connections kept open
	MaxOverflow int // connections allowed above PoolSize
}

// Open prepares the pooled handle for the database behind rawURL.
// No connection is made; Check is the liveness check.
func Open(rawURL string, opts Options) (*sqlx.DB, error) {
	src, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(src.Driver, src.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Dialect, err)
	}

	if opts.PoolSize > 0 {
		db.SetMaxIdleConns(opts.PoolSize)
		db.SetMaxOpenConns(opts.PoolSize + max(opts.MaxOverflow, 0))
	}

	return db, nil
}

// Check pings the database, bounded by DefaultPingTimeout.
func Check(ctx context.Context, db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique constraint violation
// raised by PostgreSQL or SQLite.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
