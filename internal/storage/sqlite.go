package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/matthewdeaves/isrguard/internal/ir"
)

// DB is the concrete run-history store backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id         TEXT PRIMARY KEY,
  started_at TEXT,          -- RFC3339
  target     TEXT,
  ir_version TEXT,
  run_json   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS violations (
  run_id         TEXT NOT NULL,
  file           TEXT,
  line           INTEGER,
  callback_name  TEXT,
  forbidden_call TEXT,
  category       TEXT,
  reason         TEXT,
  context        TEXT,
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_violations_run ON violations(run_id);
CREATE INDEX IF NOT EXISTS idx_violations_call ON violations(forbidden_call);
`)
	return err
}

// SaveRun upserts a run JSON and (re)writes its violations.
func (db *DB) SaveRun(run *ir.Run) error {
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	ts := run.StartedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, target, ir_version, run_json)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, target=excluded.target, ir_version=excluded.ir_version, run_json=excluded.run_json`,
		run.ID, ts, run.Target, run.IRVersion, string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM violations WHERE run_id = ?`, run.ID); err != nil {
		return err
	}
	if len(run.Violations) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO violations
			(run_id, file, line, callback_name, forbidden_call, category, reason, context)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, v := range run.Violations {
			if _, err := stmt.Exec(
				run.ID,
				v.File,
				v.Line,
				v.Callback,
				v.ForbiddenCall,
				v.Category,
				v.Reason,
				v.Context,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the full run (from stored JSON).
func (db *DB) LoadRun(id string) (ir.Run, error) {
	var s string
	row := db.conn.QueryRow(`SELECT run_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return ir.Run{}, err
	}
	var run ir.Run
	if err := json.Unmarshal([]byte(s), &run); err != nil {
		return ir.Run{}, err
	}
	return run, nil
}
