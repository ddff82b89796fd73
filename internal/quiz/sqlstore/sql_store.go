package sqlstore

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store keeps completed attempts in the quiz_results table of either SQLite
// or PostgreSQL.
type Store struct {
	db     *sqlx.DB
	driver string
	logger *log.Logger

	// legacy is set once an insert proves the table predates quiz_id.
	legacy atomic.Bool
}

func NewSQLiteStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "quiz.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	return Open(DriverSQLite, path, nil)
}

func Open(driver, dsn string, logger *log.Logger) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	case "sqlite", "":
		driver = DriverSQLite
	case "postgresql", "pg":
		driver = DriverPostgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	store, err := NewWithDB(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewWithDB wraps an open connection and makes sure the schema exists.
func NewWithDB(db *sqlx.DB, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	store := &Store{
		db:     db,
		driver: db.DriverName(),
		logger: logger,
	}
	if err := store.initSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
