// Package journal keeps a local sqlite record of mutations performed
// through userdash. It is write-mostly and never consulted to answer
// API reads.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marcus/userdash/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS activity (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    action TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    summary TEXT NOT NULL DEFAULT '',
    ok INTEGER NOT NULL DEFAULT 1,
    error TEXT NOT NULL DEFAULT '',
    timestamp TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_timestamp ON activity(timestamp);
`

// tsLayout is fixed-width so timestamps compare correctly as text
const tsLayout = "2006-01-02T15:04:05.000000Z07:00"

// Journal wraps the sqlite connection
type Journal struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the journal at path
func Open(path string) (*Journal, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	// Enable WAL mode so the CLI can read while the dashboard writes
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	// Single writer
	conn.SetMaxOpenConns(1)

	return &Journal{conn: conn, path: path}, nil
}

// Close closes the database
func (j *Journal) Close() error {
	return j.conn.Close()
}

// Path returns the database file path
func (j *Journal) Path() string {
	return j.path
}

// Record appends an entry. A zero Timestamp is replaced with now.
func (j *Journal) Record(ctx context.Context, e models.ActivityEntry) (int64, error) {
	if e.Action == "" {
		return 0, fmt.Errorf("record activity: empty action")
	}
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	ok := 0
	if e.OK {
		ok = 1
	}

	res, err := j.conn.ExecContext(ctx,
		`INSERT INTO activity (action, user_id, summary, ok, error, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		string(e.Action), e.UserID.String(), e.Summary, ok, e.Error, ts.UTC().Format(tsLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("record activity: %w", err)
	}
	return res.LastInsertId()
}

// ListOptions filters Recent
type ListOptions struct {
	Limit  int
	UserID models.ID
	Action models.ActionType
	Failed bool // only failed entries
}

// Recent returns the newest entries first
func (j *Journal) Recent(ctx context.Context, opts ListOptions) ([]models.ActivityEntry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, action, user_id, summary, ok, error, timestamp FROM activity WHERE 1=1`
	var args []any
	if opts.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, opts.UserID.String())
	}
	if opts.Action != "" {
		query += ` AND action = ?`
		args = append(args, string(opts.Action))
	}
	if opts.Failed {
		query += ` AND ok = 0`
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityEntry
	for rows.Next() {
		var (
			e      models.ActivityEntry
			action string
			userID string
			ok     int
			ts     string
		)
		if err := rows.Scan(&e.ID, &action, &userID, &e.Summary, &ok, &e.Error, &ts); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.Action = models.ActionType(action)
		e.UserID = models.ID(userID)
		e.OK = ok == 1
		e.Timestamp = parseTimestamp(ts)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return entries, nil
}

// Prune deletes entries older than cutoff and returns how many were removed
func (j *Journal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.conn.ExecContext(ctx,
		`DELETE FROM activity WHERE timestamp < ?`, cutoff.UTC().Format(tsLayout))
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return res.RowsAffected()
}

// parseTimestamp accepts the formats sqlite may hand back
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{tsLayout, time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
