package database

import (
	"database/sql"
	"time"
)

const eventColumns = `id, timestamp, action, action_type, vendor, module, driver,
	       path, object_type, size, error_message`

// GetRecentEvents returns the N most recent events
func (d *HistoryDB) GetRecentEvents(limit int) ([]Event, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM events
	ORDER BY timestamp DESC, id DESC
	LIMIT ?
	`

	return d.queryEvents(query, limit)
}

// GetEventsByModule returns every event touching a module
func (d *HistoryDB) GetEventsByModule(module string) ([]Event, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE module = ?
	ORDER BY timestamp DESC, id DESC
	`

	return d.queryEvents(query, module)
}

// GetEventsByAction returns events filtered by action
func (d *HistoryDB) GetEventsByAction(action string) ([]Event, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE action = ?
	ORDER BY timestamp DESC, id DESC
	`

	return d.queryEvents(query, action)
}

// GetEventsByPath returns events matching a LIKE path pattern
func (d *HistoryDB) GetEventsByPath(pathPattern string) ([]Event, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE path LIKE ?
	ORDER BY timestamp DESC, id DESC
	`

	return d.queryEvents(query, pathPattern)
}

// GetLargestEvents returns the N removals that freed the most space
func (d *HistoryDB) GetLargestEvents(limit int) ([]Event, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE action = 'DELETE'
	ORDER BY size DESC, id DESC
	LIMIT ?
	`

	return d.queryEvents(query, limit)
}

// GetEventsByDateRange returns events within a time range
func (d *HistoryDB) GetEventsByDateRange(start, end time.Time) ([]Event, error) {
	query := `
	SELECT ` + eventColumns + `
	FROM events
	WHERE timestamp BETWEEN ? AND ?
	ORDER BY timestamp DESC, id DESC
	`

	return d.queryEvents(query, start, end)
}

// EventStats holds aggregated statistics
type EventStats struct {
	TotalDeleted int
	TotalEdited  int
	TotalSkipped int
	TotalDryRun  int
	TotalErrors  int
	BytesFreed   int64
	ByActionType map[string]int
	ByModule     map[string]int
	StartDate    time.Time
	EndDate      time.Time
}

// GetEventStats returns statistics for the last days
func (d *HistoryDB) GetEventStats(days int) (*EventStats, error) {
	now := time.Now()
	since := now.AddDate(0, 0, -days)

	stats := &EventStats{
		StartDate: since,
		EndDate:   now,
	}

	err := d.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN action = 'DELETE' THEN 1 END),
			COUNT(CASE WHEN action = 'EDIT' THEN 1 END),
			COUNT(CASE WHEN action = 'SKIP' THEN 1 END),
			COUNT(CASE WHEN action = 'DRY_RUN' THEN 1 END),
			COUNT(CASE WHEN action = 'ERROR' THEN 1 END),
			COALESCE(SUM(CASE WHEN action = 'DELETE' THEN size ELSE 0 END), 0)
		FROM events
		WHERE timestamp >= ?
	`, since).Scan(&stats.TotalDeleted, &stats.TotalEdited, &stats.TotalSkipped, &stats.TotalDryRun, &stats.TotalErrors, &stats.BytesFreed)
	if err != nil {
		return nil, err
	}

	stats.ByActionType, err = d.countBy("action_type", since)
	if err != nil {
		return nil, err
	}

	stats.ByModule, err = d.countBy("module", since)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// countBy groups events since a time by a fixed column name
func (d *HistoryDB) countBy(column string, since time.Time) (map[string]int, error) {
	rows, err := d.db.Query(`
		SELECT COALESCE(`+column+`, ''), COUNT(*)
		FROM events
		WHERE timestamp >= ?
		GROUP BY `+column, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}

	return counts, rows.Err()
}

// DeleteOldRecords removes records older than specified days
func (d *HistoryDB) DeleteOldRecords(olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	result, err := d.db.Exec(`DELETE FROM events WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// queryEvents executes a query and scans its rows
func (d *HistoryDB) queryEvents(query string, args ...interface{}) ([]Event, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var vendor, module, driver, errMsg sql.NullString

		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Action, &e.ActionType,
			&vendor, &module, &driver,
			&e.Path, &e.ObjectType, &e.Size, &errMsg,
		)
		if err != nil {
			return nil, err
		}

		e.Vendor = vendor.String
		e.Module = module.String
		e.Driver = driver.String
		e.ErrorMessage = errMsg.String

		events = append(events, e)
	}

	return events, rows.Err()
}
