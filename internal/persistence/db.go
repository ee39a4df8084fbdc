// Package persistence provides SQLite-based storage for the aggregate rows
// of the current run. A new run purges the previous one: the store is a
// queryable row log, not a history archive.
package persistence

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/amoebasim/internal/sim"
)

// DB wraps a SQLite connection for run row storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path, creating parent
// directories as needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rows (
		run_id TEXT NOT NULL,
		step INTEGER NOT NULL,
		month INTEGER NOT NULL,
		temperature REAL NOT NULL,
		water_quality REAL NOT NULL,
		intact INTEGER NOT NULL,
		dividing INTEGER NOT NULL,
		divided INTEGER NOT NULL,
		stressed INTEGER NOT NULL,
		encysted INTEGER NOT NULL,
		excysted INTEGER NOT NULL,
		PRIMARY KEY (run_id, step)
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rows_step ON rows(step);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun clears any previous run's rows and records the new run metadata.
func (db *DB) BeginRun(runID string, month int, seed int64) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rows"); err != nil {
		return err
	}
	meta := map[string]string{
		"run_id": runID,
		"month":  fmt.Sprintf("%d", month),
		"seed":   fmt.Sprintf("%d", seed),
	}
	for k, v := range meta {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)", k, v,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("run started", "run_id", runID, "month", month)
	return nil
}

// SaveRows appends aggregate rows for a run.
func (db *DB) SaveRows(runID string, rows []sim.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO rows
		(run_id, step, month, temperature, water_quality,
		 intact, dividing, divided, stressed, encysted, excysted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			runID, r.Step, r.Month, r.Temperature, r.WaterQuality,
			r.Intact, r.Dividing, r.Divided, r.Stressed, r.Encysted, r.Excysted,
		)
		if err != nil {
			return fmt.Errorf("insert row step %d: %w", r.Step, err)
		}
	}

	return tx.Commit()
}

// LoadRows returns the rows of a run in step order, within [fromStep, toStep].
func (db *DB) LoadRows(runID string, fromStep, toStep, limit int) ([]sim.Row, error) {
	var rows []sim.Row
	err := db.conn.Select(&rows, `SELECT
			step, month, temperature, water_quality,
			intact, dividing, divided, stressed, encysted, excysted
		FROM rows
		WHERE run_id = ? AND step >= ? AND step <= ?
		ORDER BY step ASC LIMIT ?`,
		runID, fromStep, toStep, limit,
	)
	return rows, err
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE key = ?", key)
	return value, err
}
