package sqlite

// createDocuments holds one row per store key. value is the JSON document
// as written by the caller; updated_at is RFC 3339 in UTC.
const createDocuments = `CREATE TABLE documents (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

const (
	selectDocument  = `SELECT value FROM documents WHERE key = ?`
	selectDocuments = `SELECT key, value, updated_at FROM documents ORDER BY key`
	upsertDocument  = `INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteDocument = `DELETE FROM documents WHERE key = ?`
)

// Files in the data directory.
const (
	dbFile        = "board.db"
	documentsFile = "documents.jsonl"
)
