package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Event actions
const (
	ActionDelete = "DELETE"
	ActionEdit   = "EDIT"
	ActionSkip   = "SKIP"
	ActionDryRun = "DRY_RUN"
	ActionError  = "ERROR"
)

// HistoryDB manages the SQLite audit history of delete runs
type HistoryDB struct {
	db *sql.DB
}

// Event is one executed, skipped or failed operation on the tree
type Event struct {
	ID           int64
	Timestamp    time.Time
	Action       string // DELETE, EDIT, SKIP, DRY_RUN or ERROR
	ActionType   string // vendor, module or driver
	Vendor       string
	Module       string
	Driver       string
	Path         string
	ObjectType   string // directory, file, or the editor that rewrote the file
	Size         int64  // bytes held by a removed path
	ErrorMessage string
}

// NewHistoryDB creates a new database connection and initializes schema
func NewHistoryDB(dbPath string) (*HistoryDB, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// file: prefix with _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// SELECT instead of Ping() so the file is created right away
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}

	// WAL lets the query tool read while a delete run writes
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	hdb := &HistoryDB{db: db}
	if err = hdb.initSchema(); err != nil {
		return nil, err
	}

	return hdb, nil
}

// initSchema creates tables and indexes if they don't exist
func (d *HistoryDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		action_type TEXT NOT NULL,
		vendor TEXT,
		module TEXT,
		driver TEXT,
		path TEXT NOT NULL,
		object_type TEXT NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,

		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_timestamp ON events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_action ON events(action);
	CREATE INDEX IF NOT EXISTS idx_module ON events(module);
	CREATE INDEX IF NOT EXISTS idx_path ON events(path);

	-- Metadata table for schema versioning
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Record inserts an event. A zero Timestamp is stamped with the current time.
func (d *HistoryDB) Record(e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	query := `
	INSERT INTO events (
		timestamp, action, action_type, vendor, module, driver,
		path, object_type, size, error_message
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := d.db.Exec(
		query,
		e.Timestamp,
		e.Action,
		e.ActionType,
		e.Vendor,
		e.Module,
		e.Driver,
		e.Path,
		e.ObjectType,
		e.Size,
		e.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("record %s %s: %w", e.Action, e.Path, err)
	}
	return nil
}

// Close closes the database connection
func (d *HistoryDB) Close() error {
	return d.db.Close()
}

// Vacuum optimizes the database
func (d *HistoryDB) Vacuum() error {
	_, err := d.db.Exec("VACUUM")
	return err
}

// GetDatabaseStats returns record count, size and date range
func (d *HistoryDB) GetDatabaseStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var totalRecords int64
	if err := d.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&totalRecords); err != nil {
		return nil, err
	}
	stats["total_records"] = totalRecords

	var pageCount, pageSize int64
	if err := d.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, err
	}
	stats["database_size_bytes"] = pageCount * pageSize

	var oldest, newest sql.NullString
	err := d.db.QueryRow("SELECT MIN(timestamp), MAX(timestamp) FROM events").Scan(&oldest, &newest)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if t, ok := parseTimestamp(oldest); ok {
		stats["oldest_record"] = t
	}
	if t, ok := parseTimestamp(newest); ok {
		stats["newest_record"] = t
	}

	return stats, nil
}

// timestampLayouts are the forms SQLite hands back for aggregated DATETIME
// columns, which bypass the driver's time parsing.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func parseTimestamp(s sql.NullString) (time.Time, bool) {
	if !s.Valid || s.String == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
