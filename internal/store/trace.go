// Package store holds the sqlite-backed trace sink. Session state itself
// is in-memory only; the sink records the diagnostic trail so background
// activity survives for inspection even when a session's visible log is
// toggled off.
package store

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/asknotes/asknotes/internal/core"
)

type TraceStore struct {
	db *sql.DB
}

func NewTraceStore(dataSourceName string) (*TraceStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping trace database: %w", err)
	}

	ts := &TraceStore{db: db}
	if err = ts.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize trace schema: %w", err)
	}
	return ts, nil
}

func (ts *TraceStore) Close() error {
	return ts.db.Close()
}

func (ts *TraceStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS trace_entries (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        session_id TEXT NOT NULL,
        ts DATETIME NOT NULL,
        severity TEXT NOT NULL CHECK (severity IN ('info', 'success', 'error')),
        message TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_trace_session ON trace_entries (session_id, ts);
    `
	_, err := ts.db.Exec(schema)
	return err
}

// Trace implements core.TraceSink. It never returns an error: a failed
// insert is logged and dropped, because the trail is observational and
// must not affect any other component's control flow.
func (ts *TraceStore) Trace(sessionID string, entry core.LogEntry) {
	_, err := ts.db.Exec(
		"INSERT INTO trace_entries (session_id, ts, severity, message) VALUES (?, ?, ?, ?)",
		sessionID, entry.Time, string(entry.Severity), entry.Message,
	)
	if err != nil {
		log.Printf("Failed to record trace entry for session %s: %v", sessionID, err)
	}
}

// Recent returns up to limit entries for one session, newest first.
func (ts *TraceStore) Recent(sessionID string, limit int) ([]core.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := ts.db.Query(
		"SELECT ts, severity, message FROM trace_entries WHERE session_id = ? ORDER BY ts DESC, id DESC LIMIT ?",
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query trace entries: %w", err)
	}
	defer rows.Close()

	var entries []core.LogEntry
	for rows.Next() {
		var e core.LogEntry
		var severity string
		if err := rows.Scan(&e.Time, &severity, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan trace entry: %w", err)
		}
		e.Severity = core.Severity(severity)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
