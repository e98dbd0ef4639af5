package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/codedesc/internal/model"
)

// Ensure SQLiteStore implements model.EntryStore.
var _ model.EntryStore = (*SQLiteStore)(nil)

// SQLiteStore keeps the latest description of every indexed file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// descriptions table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS descriptions (
		path         TEXT PRIMARY KEY,
		description  TEXT NOT NULL,
		provider     TEXT NOT NULL DEFAULT '',
		size         INTEGER NOT NULL DEFAULT 0,
		run_id       TEXT NOT NULL DEFAULT '',
		described_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating descriptions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save inserts the entry or replaces the previous description of the same path.
func (s *SQLiteStore) Save(e model.Entry) error {
	_, err := s.db.Exec(`INSERT INTO descriptions (path, description, provider, size, run_id, described_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			description = excluded.description,
			provider = excluded.provider,
			size = excluded.size,
			run_id = excluded.run_id,
			described_at = excluded.described_at`,
		e.Path, e.Description, e.Provider, e.Size, e.RunID, e.DescribedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving description for %s: %w", e.Path, err)
	}
	return nil
}

// Get returns the entry for path. found is false when the path was never indexed.
func (s *SQLiteStore) Get(path string) (model.Entry, bool, error) {
	row := s.db.QueryRow(`SELECT path, description, provider, size, run_id, described_at
		FROM descriptions WHERE path = ?`, path)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return model.Entry{}, false, nil
	}
	if err != nil {
		return model.Entry{}, false, fmt.Errorf("loading description for %s: %w", path, err)
	}
	return e, true, nil
}

// List returns entries described at or after since, ordered by path.
// A zero since returns everything.
func (s *SQLiteStore) List(since time.Time) ([]model.Entry, error) {
	rows, err := s.db.Query(`SELECT path, description, provider, size, run_id, described_at
		FROM descriptions WHERE described_at >= ? ORDER BY path`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("listing descriptions: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning description: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of indexed files.
func (s *SQLiteStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM descriptions").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting descriptions: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (model.Entry, error) {
	var e model.Entry
	err := sc.Scan(&e.Path, &e.Description, &e.Provider, &e.Size, &e.RunID, &e.DescribedAt)
	return e, err
}
