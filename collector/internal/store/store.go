package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS fixes (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    received_at TEXT NOT NULL,
    line        TEXT NOT NULL
);
`

// Fix is one received GPS sentence with its arrival time.
type Fix struct {
	ID         int64     `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
	Line       string    `json:"line"`
}

// Store persists received artifacts: JPEG frames as timestamped files in
// the image directory, GPS sentences as rows in a SQLite fix log. It is
// safe for concurrent use by the HTTP handlers.
type Store struct {
	db       *sql.DB
	imageDir string
	now      func() time.Time // injectable for deterministic tests
}

// Open prepares the image directory and opens (creating if needed) the
// SQLite fix log.
func Open(imageDir, dbPath string) (*Store, error) {
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create image dir: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL", dbPath))
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if _, err := db.Exec(initSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	return &Store{db: db, imageDir: imageDir, now: time.Now}, nil
}

// SaveImage writes one JPEG frame under a timestamped name and returns the
// filename relative to the image directory.
func (s *Store) SaveImage(data []byte) (string, error) {
	t := s.now().UTC()
	name := fmt.Sprintf("%s_%06d.jpg", t.Format("20060102_150405"), t.Nanosecond()/1000)

	path := filepath.Join(s.imageDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store: write image: %w", err)
	}
	return name, nil
}

// AppendFix records one GPS sentence in the fix log.
func (s *Store) AppendFix(line string) error {
	received := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.Exec(
		`INSERT INTO fixes (received_at, line) VALUES (?, ?)`, received, line,
	); err != nil {
		return fmt.Errorf("store: append fix: %w", err)
	}
	return nil
}

// RecentFixes returns up to limit fixes, newest first.
func (s *Store) RecentFixes(limit int) ([]Fix, error) {
	rows, err := s.db.Query(
		`SELECT id, received_at, line FROM fixes ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: query fixes: %w", err)
	}
	defer rows.Close()

	var fixes []Fix
	for rows.Next() {
		var f Fix
		var received string
		if err := rows.Scan(&f.ID, &received, &f.Line); err != nil {
			return nil, fmt.Errorf("store: scan fix: %w", err)
		}
		f.ReceivedAt, err = time.Parse(time.RFC3339Nano, received)
		if err != nil {
			return nil, fmt.Errorf("store: parse received_at: %w", err)
		}
		fixes = append(fixes, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate fixes: %w", err)
	}
	return fixes, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
