package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/launch-comb/app/announcement"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the seen keys in a seen_keys table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	version, dirty, err := RunMigrations(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("State database ready", "path", path, "version", version, "dirty", dirty)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (announcement.SeenState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seen_key FROM seen_keys`)
	if err != nil {
		return nil, fmt.Errorf("failed to query seen keys: %w", err)
	}
	defer rows.Close()

	seen := announcement.NewSeenState()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan seen key: %w", err)
		}
		seen.Add(key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seen keys: %w", err)
	}

	return seen, nil
}

// SaveAtomic inserts every key of seen in one transaction. Keys already
// stored are left alone, so the table only grows.
func (s *SQLiteStore) SaveAtomic(ctx context.Context, seen announcement.SeenState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO seen_keys (seen_key) VALUES (?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range seen.Keys() {
		if _, err := stmt.ExecContext(ctx, key); err != nil {
			return fmt.Errorf("failed to store seen key: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seen keys: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
