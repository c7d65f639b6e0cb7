// Package catalog persists the recent-files list in SQLite so the MRU
// survives restarts. The in-memory session state stays authoritative
// during a run; the catalog seeds it at startup and mirrors updates.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recent_files (
	path      TEXT PRIMARY KEY,
	opened_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recent_opened ON recent_files(opened_at);
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the catalog database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Touch records that path was opened or saved at t, replacing any
// earlier timestamp.
func (db *DB) Touch(path string, t time.Time) error {
	_, err := db.conn.Exec(`
		INSERT INTO recent_files (path, opened_at)
		VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET opened_at = excluded.opened_at
	`, path, t.UTC())
	if err != nil {
		return fmt.Errorf("catalog: touch %s: %w", path, err)
	}
	return nil
}

// Recent returns up to limit paths, most recently touched first.
func (db *DB) Recent(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.Query(`
		SELECT path FROM recent_files
		ORDER BY opened_at DESC, path ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: recent: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("catalog: scan recent: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Clear drops every recent-files row.
func (db *DB) Clear() error {
	if _, err := db.conn.Exec(`DELETE FROM recent_files`); err != nil {
		return fmt.Errorf("catalog: clear: %w", err)
	}
	return nil
}
