// Package store provides database access for the content backend. It
// supports an embedded SQLite database for development and tests, and
// MySQL for production deployments.
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"

	_ "github.com/go-sql-driver/mysql" // MySQL driver for database/sql
	_ "modernc.org/sqlite"             // SQLite driver for database/sql
)

//go:embed migrations/sqlite/*.sql migrations/mysql/*.sql
var migrations embed.FS

// DBConfig holds database connection options.
type DBConfig struct {
	// Driver is either "sqlite" or "mysql".
	Driver string
	// Path is the SQLite database file path (sqlite only).
	Path string
	// DSN is the MySQL data source name (mysql only). It must include
	// parseTime=true so DATETIME columns scan into time.Time.
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultDBConfig returns sensible connection-pool defaults.
func DefaultDBConfig() DBConfig {
	return DBConfig{
		Driver:          "sqlite",
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// NewDB opens a SQLite database at path with default pool settings.
func NewDB(path string) (*sql.DB, error) {
	cfg := DefaultDBConfig()
	cfg.Path = path
	return NewDBWithConfig(cfg)
}

// NewDBWithConfig opens a database connection per the given configuration.
func NewDBWithConfig(cfg DBConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch cfg.Driver {
	case "sqlite", "":
		db, err = sql.Open("sqlite", cfg.Path)
	case "mysql":
		db, err = sql.Open("mysql", cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if cfg.Driver == "sqlite" || cfg.Driver == "" {
		// Configure SQLite for better performance and concurrency
		pragmas := []string{
			"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
			"PRAGMA busy_timeout=5000",  // Wait 5s when database is locked
			"PRAGMA synchronous=NORMAL", // Good balance of safety and speed
			"PRAGMA foreign_keys=ON",    // Enforce foreign key constraints
			"PRAGMA temp_store=MEMORY",  // Store temp tables in memory
		}
		for _, pragma := range pragmas {
			if _, err := db.Exec(pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
			}
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate runs all pending database migrations for the given driver.
func Migrate(db *sql.DB, driver string) error {
	var dialect, dir string
	switch driver {
	case "sqlite", "":
		dialect, dir = "sqlite3", "migrations/sqlite"
	case "mysql":
		dialect, dir = "mysql", "migrations/mysql"
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("locating migrations: %w", err)
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
