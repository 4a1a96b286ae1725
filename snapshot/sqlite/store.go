// Package sqlite persists space snapshots in a SQLite database using the
// pure Go driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mwantia/semfs/snapshot"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store keeps one row per space root, the snapshot itself as a JSON
// payload. Snapshots are replaced wholesale on Save; there is no partial
// update to carry bugs forward into an import.
type Store struct {
	mu sync.RWMutex
	db *sql.DB

	path string
}

// NewStore opens a SQLite-backed snapshot store.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS semfs_snapshots (
		root     TEXT PRIMARY KEY,
		space_id TEXT NOT NULL,
		payload  BLOB NOT NULL,
		saved_at INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Name() string {
	return "sqlite"
}

func (s *Store) Open(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO semfs_snapshots (root, space_id, payload, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(root) DO UPDATE SET
			space_id = excluded.space_id,
			payload  = excluded.payload,
			saved_at = excluded.saved_at`,
		snap.Root, string(snap.SpaceID), payload, time.Now().Unix())

	return err
}

func (s *Store) Load(ctx context.Context, root string) (*snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM semfs_snapshots WHERE root = ?", root).Scan(&payload)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", snapshot.ErrSnapshotNotFound, root)
	}
	if err != nil {
		return nil, err
	}

	snap := &snapshot.Snapshot{}
	if err := json.Unmarshal(payload, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) Delete(ctx context.Context, root string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM semfs_snapshots WHERE root = ?", root)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", snapshot.ErrSnapshotNotFound, root)
	}

	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT root FROM semfs_snapshots ORDER BY root")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roots := make([]string, 0)
	for rows.Next() {
		var root string
		if err := rows.Scan(&root); err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}

	return roots, rows.Err()
}
