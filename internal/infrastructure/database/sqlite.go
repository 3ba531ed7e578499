package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"library-backend/pkg/logger"
)

// DB wraps the SQLite handle used by every repository.
type DB struct {
	*sql.DB
}

// Connect opens (and creates if missing) the SQLite database and runs
// the schema migration. busy_timeout keeps concurrent writers from
// failing immediately with SQLITE_BUSY.
//
// Loans and requests reference users and books by id without foreign
// keys on purpose: loan history outlives catalog deletions.
func Connect(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL lets readers proceed while a writer holds the lock.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		logger.Warn("failed to enable WAL mode", map[string]interface{}{"error": err.Error()})
	}

	wrapped := &DB{DB: db}
	if err := wrapped.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Info("database connected", map[string]interface{}{"path": path})
	return wrapped, nil
}

// Migrate creates the schema when it does not exist yet.
func (d *DB) Migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id          TEXT PRIMARY KEY,
			email       TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password    TEXT NOT NULL,
			first_name  TEXT NOT NULL,
			last_name   TEXT NOT NULL,
			role        TEXT NOT NULL DEFAULT 'member',
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS books (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			author           TEXT NOT NULL,
			isbn             TEXT NOT NULL UNIQUE,
			category         TEXT NOT NULL,
			published_year   INTEGER NOT NULL,
			total_copies     INTEGER NOT NULL CHECK (total_copies >= 1),
			available_copies INTEGER NOT NULL CHECK (available_copies >= 0 AND available_copies <= total_copies),
			status           TEXT NOT NULL DEFAULT 'available',
			created_at       DATETIME NOT NULL,
			updated_at       DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS loans (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			book_id       TEXT NOT NULL,
			loan_date     DATETIME NOT NULL,
			due_date      DATETIME NOT NULL,
			return_date   DATETIME,
			status        TEXT NOT NULL DEFAULT 'active',
			renewal_count INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_loans_user_status ON loans(user_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_loans_book_status ON loans(book_id, status);`,
		`CREATE TABLE IF NOT EXISTS loan_requests (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			book_id          TEXT NOT NULL,
			status           TEXT NOT NULL DEFAULT 'pending',
			request_date     DATETIME NOT NULL,
			review_date      DATETIME,
			reviewed_by      TEXT,
			due_date         DATETIME,
			rejection_reason TEXT,
			token            TEXT NOT NULL UNIQUE,
			created_at       DATETIME NOT NULL,
			updated_at       DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_loan_requests_status ON loan_requests(status);`,
	}

	for _, stmt := range schema {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w", err)
		}
	}
	return nil
}

// HealthCheck reports whether the database answers within a short deadline.
func (d *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.PingContext(ctx)
}
