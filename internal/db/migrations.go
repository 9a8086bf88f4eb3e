// internal/db/migrations.go
package db

import "fmt"

// Routine catalog. One row per routine in _routines, parameters kept as
// child rows ordered by position so the descriptor round-trips as one
// ordered list.
const routineSchema = `
CREATE TABLE IF NOT EXISTS _routines (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    kind             TEXT NOT NULL CHECK (kind IN ('PROCEDURE', 'FUNCTION')),
    return_type      TEXT DEFAULT '',
    body             TEXT NOT NULL,
    source           TEXT NOT NULL,
    sql_data_access  TEXT DEFAULT 'CONTAINS SQL',
    definer          TEXT DEFAULT '',
    is_deterministic INTEGER DEFAULT 0,
    comment          TEXT DEFAULT '',
    created_at       TEXT DEFAULT (datetime('now')),
    updated_at       TEXT DEFAULT (datetime('now')),
    UNIQUE(name, kind)
);

CREATE INDEX IF NOT EXISTS idx_routines_name ON _routines(name);

CREATE TABLE IF NOT EXISTS _routine_params (
    id          TEXT PRIMARY KEY,
    routine_id  TEXT NOT NULL REFERENCES _routines(id) ON DELETE CASCADE,
    position    INTEGER NOT NULL,
    direction   TEXT DEFAULT '',
    name        TEXT NOT NULL,
    type        TEXT NOT NULL,
    length      TEXT DEFAULT '',
    options     TEXT DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_routine_params_routine_id ON _routine_params(routine_id);
`

// Panel key-value store: admin password hash, session token, settings.
const panelSchema = `
CREATE TABLE IF NOT EXISTS _panel (
    key        TEXT PRIMARY KEY,
    value      TEXT,
    updated_at TEXT DEFAULT (datetime('now'))
);
`

// RunMigrations creates all catalog tables. Every statement is
// idempotent, so this is safe to run on every startup.
func (d *DB) RunMigrations() error {
	schemas := []struct {
		name string
		sql  string
	}{
		{"routines", routineSchema},
		{"panel", panelSchema},
	}

	for _, s := range schemas {
		if _, err := d.Exec(s.sql); err != nil {
			return fmt.Errorf("migrate %s schema: %w", s.name, err)
		}
	}
	return nil
}
