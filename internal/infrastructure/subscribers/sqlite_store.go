package subscribers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/omar4-4mohsen/dates-monitor/internal/domain"
	"github.com/omar4-4mohsen/dates-monitor/internal/ports"
)

// SQLiteStore persists subscribers in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates (or opens) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS subscribers (
		chat_id INTEGER PRIMARY KEY,
		subscribed_at TEXT NOT NULL
	);`)
	return err
}

// Load implements ports.SubscriberStore.
func (s *SQLiteStore) Load(ctx context.Context) ([]domain.RecipientID, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT chat_id FROM subscribers ORDER BY chat_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []domain.RecipientID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, domain.RecipientID(id))
	}
	return ids, rows.Err()
}

// Add implements ports.SubscriberStore.
func (s *SQLiteStore) Add(ctx context.Context, id domain.RecipientID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO subscribers (chat_id, subscribed_at) VALUES (?, ?)",
		int64(id), time.Now().UTC().Format(domain.TimestampFormat))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ ports.SubscriberStore = (*SQLiteStore)(nil)
