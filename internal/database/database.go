// Package database persists saved analysis results.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Ruchi0214/Regexia/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultPingTimeout bounds the connection check in Connect.
const DefaultPingTimeout = 5 * time.Second

// Connect opens the configured database and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driver, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	switch driver {
	case config.DriverSQLite:
		// single writer; also keeps one shared :memory: database alive
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}

func dataSource(cfg config.DatabaseConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return config.DriverSQLite, cfg.Path, nil
	case config.DriverPostgres:
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
		)
		return config.DriverPostgres, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
