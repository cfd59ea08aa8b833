// Package history keeps a write-through log of analysis requests in
// SQLite. The in-flight extraction record itself stays request-scoped;
// the store only records what happened, for listing past runs.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/patentlens/patentlens/internal/recovery"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	filename    TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	record_json TEXT NOT NULL DEFAULT '',
	page_count  INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);
`

type Entry struct {
	ID         int64  `db:"id" json:"id"`
	Filename   string `db:"filename" json:"filename"`
	Status     Status `db:"status" json:"status"`
	Error      string `db:"error" json:"error,omitempty"`
	RecordJSON string `db:"record_json" json:"-"`
	PageCount  int    `db:"page_count" json:"page_count"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record appends one analysis outcome. The record JSON is stored for
// completed runs so past results remain downloadable.
func (s *Store) Record(filename string, rec recovery.Record, failed bool, pageCount int) (int64, error) {
	status := StatusCompleted
	errMsg := ""
	if failed {
		status = StatusFailed
		if msg, ok := rec["error"].(string); ok {
			errMsg = msg
		}
	}
	blob, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshal record: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO analyses (filename, status, error, record_json, page_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		filename, status, errMsg, string(blob), pageCount, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent entries, newest first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []Entry
	err := s.db.Select(&entries,
		`SELECT id, filename, status, error, record_json, page_count, created_at
		 FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return entries, nil
}

// Get returns one entry along with its stored record, when present.
func (s *Store) Get(id int64) (Entry, recovery.Record, error) {
	var e Entry
	err := s.db.Get(&e,
		`SELECT id, filename, status, error, record_json, page_count, created_at
		 FROM analyses WHERE id = ?`, id)
	if err != nil {
		return Entry{}, nil, fmt.Errorf("get analysis %d: %w", id, err)
	}
	var rec recovery.Record
	if e.RecordJSON != "" {
		if err := json.Unmarshal([]byte(e.RecordJSON), &rec); err != nil {
			return Entry{}, nil, fmt.Errorf("decode stored record %d: %w", id, err)
		}
	}
	return e, rec, nil
}
