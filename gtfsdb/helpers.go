package gtfsdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/gtfs-tools/transitaccess/internal/appconf"
)

//go:embed schema.sql
var ddl string

const memoryDB = ":memory:"

// ErrFileDBInTest is returned when a test configuration points at a file.
var ErrFileDBInTest = errors.New("test database must use in-memory storage")

// createDB opens a SQLite database and creates the schedule tables.
func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != memoryDB {
		return nil, fmt.Errorf("%w: got %q", ErrFileDBInTest, config.DBPath)
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if config.DBPath == memoryDB {
		// every new connection to :memory: is a separate empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	ctx := context.Background()
	if err := performDatabaseMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmedStmt := strings.TrimSpace(stmt)
		if trimmedStmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmedStmt); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmedStmt, err)
		}
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
