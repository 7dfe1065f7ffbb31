package ledger

// schemaVersion is the current schema version. Increment when adding
// migrations.
const schemaVersion = 1

// migrations maps version numbers to SQL that brings the schema from
// (version-1) to (version). Version 1 is the initial schema.
var migrations = map[int]string{
	1: `
-- One row per detection verdict the engine produced.
CREATE TABLE IF NOT EXISTS verdicts (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path     TEXT    NOT NULL,
	start_line    INTEGER NOT NULL DEFAULT 0,
	end_line      INTEGER NOT NULL DEFAULT 0,
	contributor   TEXT    NOT NULL,
	similarity    REAL    NOT NULL DEFAULT 0,
	confidence    REAL    NOT NULL DEFAULT 0,
	agent         TEXT    NOT NULL DEFAULT '',
	session_id    TEXT    NOT NULL DEFAULT '',
	matched_record TEXT   NOT NULL DEFAULT '',
	duration_ms   REAL    NOT NULL DEFAULT 0,
	created_at    TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_verdicts_file ON verdicts(file_path);
CREATE INDEX IF NOT EXISTS idx_verdicts_contributor ON verdicts(contributor);
CREATE INDEX IF NOT EXISTS idx_verdicts_created ON verdicts(created_at);
`,
}
