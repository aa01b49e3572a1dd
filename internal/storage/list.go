package storage

import (
	"database/sql"
	"time"
)

// ListRuns returns a lightweight list of runs with violation counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.target, r.ir_version,
		       (SELECT COUNT(1) FROM violations v WHERE v.run_id = r.id) AS violations
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Target, &rr.IRVersion, &rr.Violations); err != nil {
			return nil, err
		}
		// Parse RFC3339Nano first, fallback to RFC3339
		if t, err := time.Parse(time.RFC3339Nano, startedAtStr); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAtStr); err2 == nil {
			rr.StartedAt = t2
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// HasRun reports whether a run id exists.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
