package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteSnapshots persists the snapshot blob in a single-row SQLite table so
// the demo survives restarts without needing a database server.
type SQLiteSnapshots struct {
	db *sql.DB
}

func NewSQLiteSnapshots(dbPath string) (*SQLiteSnapshots, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteSnapshots{db: db}, nil
}

func (r *SQLiteSnapshots) Load(ctx context.Context) (*Snapshot, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM demo_snapshots WHERE key = ?`, SnapshotKey,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		// A corrupt blob must not brick the demo; fall back to baseline.
		slog.WarnContext(ctx, "Discarding unreadable demo snapshot", "error", err, "key", SnapshotKey)
		return nil, nil
	}
	return &s, nil
}

func (r *SQLiteSnapshots) Save(ctx context.Context, s Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO demo_snapshots (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		SnapshotKey, payload)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshots) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM demo_snapshots WHERE key = ?`, SnapshotKey); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshots) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
