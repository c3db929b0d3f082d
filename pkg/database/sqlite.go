package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/classtrack/attendance-api/pkg/config"
)

// NewSQLite opens (creating if needed) the local database file. WAL keeps
// readers from blocking the single writer. Foreign keys stay advisory
// (SQLite default): deleting a section must leave referencing students
// with a dangling section_id, so reference validity is checked in the
// service layer instead of by the engine.
func NewSQLite(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	if cfg.BusyTimeoutMS > 0 {
		params.Set("_busy_timeout", fmt.Sprintf("%d", cfg.BusyTimeoutMS))
	}
	dsn := fmt.Sprintf("file:%s?%s", cfg.Path, params.Encode())

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// A single writer is the concurrency model; one connection avoids
	// SQLITE_BUSY churn between overlapping UI actions.
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
