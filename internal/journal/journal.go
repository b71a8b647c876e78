// Package journal keeps a persistent log of graph diagnostics.
//
// Validation corrections, relations dropped for missing endpoints and
// malformed records in the graph file are never failures for the caller,
// so they end up here where they can be reviewed later. Entries live in a
// SQLite database next to the rest of the server state.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HendryAvila/telosgraph/internal/graph"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const (
	// DefaultLimit is the number of entries Recent returns when asked for
	// zero or fewer.
	DefaultLimit = 20
	// MaxLimit caps a single Recent call.
	MaxLimit = 100

	dbFile = "diagnostics.db"
)

// Entry is one stored diagnostic.
type Entry struct {
	ID        int64  `json:"id"`
	OpID      string `json:"op_id"`
	Op        string `json:"op"`
	Kind      string `json:"kind"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

// Config configures the journal location.
type Config struct {
	DataDir string
}

// Journal is a SQLite-backed diagnostics log. It satisfies
// graph.DiagnosticSink.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

var _ graph.DiagnosticSink = (*Journal)(nil)

// Open creates the data directory if needed and opens the journal database.
func Open(cfg Config) (*Journal, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("journal: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(cfg.DataDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	j := &Journal{db: db, now: time.Now}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return j, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS diagnostics (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			op_id      TEXT    NOT NULL,
			op         TEXT    NOT NULL DEFAULT '',
			kind       TEXT    NOT NULL,
			subject    TEXT    NOT NULL DEFAULT '',
			message    TEXT    NOT NULL,
			created_at TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_diag_kind    ON diagnostics(kind);
		CREATE INDEX IF NOT EXISTS idx_diag_created ON diagnostics(created_at DESC);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record stores diagnostics in a single transaction.
func (j *Journal) Record(ctx context.Context, diags []graph.Diagnostic) error {
	if len(diags) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("journal: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diagnostics (op_id, op, kind, subject, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("journal: prepare: %w", err)
	}
	defer stmt.Close()

	ts := j.now().UTC().Format(time.RFC3339)
	for _, d := range diags {
		if _, err := stmt.ExecContext(ctx, d.OpID, d.Op, string(d.Kind), d.Subject, d.Message, ts); err != nil {
			return fmt.Errorf("journal: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("journal: commit: %w", err)
	}
	return nil
}

// Recent returns the newest entries first, optionally only those of kind.
// A limit of zero or less means DefaultLimit; larger limits are capped at
// MaxLimit.
func (j *Journal) Recent(ctx context.Context, kind graph.DiagnosticKind, limit int) ([]Entry, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	query := `SELECT id, op_id, op, kind, subject, message, created_at FROM diagnostics`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.OpID, &e.Op, &e.Kind, &e.Subject, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: rows: %w", err)
	}
	return entries, nil
}
