package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// An overridden item has a row in session_overrides even when nobody shares it.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    items_text TEXT NOT NULL,
    participants_text TEXT NOT NULL,
    gst_rate REAL NOT NULL,
    service_tax_rate REAL NOT NULL,
    revision INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS session_overrides (
    session_id TEXT NOT NULL,
    item_index INTEGER NOT NULL,
    PRIMARY KEY (session_id, item_index),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS override_participants (
    session_id TEXT NOT NULL,
    item_index INTEGER NOT NULL,
    position INTEGER NOT NULL,
    participant TEXT NOT NULL,
    PRIMARY KEY (session_id, item_index, position),
    FOREIGN KEY (session_id, item_index) REFERENCES session_overrides(session_id, item_index) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
CREATE INDEX IF NOT EXISTS idx_session_overrides_session_id ON session_overrides(session_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
