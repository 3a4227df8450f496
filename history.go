package main

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// historySchema holds every runner invocation of every session, unlike
// the session log which starts fresh each run.
const historySchema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS command_history (
    id TEXT PRIMARY KEY,
    ts INTEGER NOT NULL,
    command TEXT NOT NULL,
    output TEXT NOT NULL DEFAULT '',
    success INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_command_history_ts ON command_history(ts);
`

// HistoryStore persists command invocations in SQLite.
type HistoryStore struct {
	mu         sync.Mutex
	db         *sql.DB
	stmtInsert *sql.Stmt
}

// NewHistoryStore opens (creating if needed) the history database at
// path.
func NewHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	if _, err := db.Exec(historySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init history schema: %w", err)
	}
	stmt, err := db.Prepare(`INSERT INTO command_history (id, ts, command, output, success) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare history insert: %w", err)
	}
	return &HistoryStore{db: db, stmtInsert: stmt}, nil
}

// Record appends one invocation. Best-effort: failures go to the
// diagnostic logger only.
func (h *HistoryStore) Record(command, output string, success bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.stmtInsert.Exec(uuid.New().String(), time.Now().UnixMilli(), command, output, success)
	if err != nil {
		LogError("history").Err(err).Msg("Failed to record command")
	}
}

// Recent returns up to limit records, newest first.
func (h *HistoryStore) Recent(limit int) ([]CommandRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := h.db.Query(`SELECT id, ts, command, output, success FROM command_history ORDER BY ts DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []CommandRecord
	for rows.Next() {
		var r CommandRecord
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Command, &r.Output, &r.Success); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the database.
func (h *HistoryStore) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stmtInsert != nil {
		_ = h.stmtInsert.Close()
	}
	if h.db != nil {
		_ = h.db.Close()
	}
}

// GetCommandHistory returns recent runner invocations for the UI.
func (a *App) GetCommandHistory(limit int) ([]CommandRecord, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.Recent(limit)
}
