package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// HistoryStore persists the interactive loop's input lines across
// sessions so readline recall survives restarts. It is independent of
// the in-memory per-session log shown by the history builtin.
type HistoryStore struct {
	db         *sql.DB
	maxEntries int
}

// OpenHistoryStore opens (or creates) the sqlite history database at
// path, creating parent directories as needed.
func OpenHistoryStore(path string, maxEntries int) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			command TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %v", err)
	}

	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &HistoryStore{db: db, maxEntries: maxEntries}, nil
}

// Append records one input line. Blank lines and consecutive duplicates
// are skipped; the table is trimmed to the configured cap.
func (s *HistoryStore) Append(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	var last string
	err := s.db.QueryRow(`SELECT command FROM history ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err == nil && last == line {
		return nil
	}
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	if _, err := s.db.Exec(`INSERT INTO history (command) VALUES (?)`, line); err != nil {
		return err
	}

	_, err = s.db.Exec(`
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)
	`, s.maxEntries)
	return err
}

// Recent returns up to limit lines, oldest first.
func (s *HistoryStore) Recent(limit int) ([]string, error) {
	if limit <= 0 {
		limit = s.maxEntries
	}

	rows, err := s.db.Query(`SELECT command FROM history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return nil, err
		}
		lines = append(lines, cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
