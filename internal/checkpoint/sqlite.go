package checkpoint

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS daoforge_checkpoints (
	key TEXT PRIMARY KEY,
	blob TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
)`

// SQLStore keeps the checkpoint in a key/value table. It backs both the
// SQLite and Postgres stores; only the SQL dialect differs.
type SQLStore struct {
	db  *sql.DB
	key string

	getSQL    string
	upsertSQL string
	clearSQL  string
}

// OpenSQLite opens a SQLite-backed store. Accepts plain file paths,
// :memory:, sqlite:// URLs, and libsql:// URLs (served by the libsql
// driver).
func OpenSQLite(target string) (*SQLStore, error) {
	driverName := "sqlite"
	connStr := target
	lower := strings.ToLower(target)
	switch {
	case strings.HasPrefix(lower, "libsql://"):
		driverName = "libsql"
	case strings.HasPrefix(lower, "sqlite://"):
		connStr = strings.TrimPrefix(target, "sqlite://")
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create checkpoint table: %w", err)
	}

	return &SQLStore{
		db:  db,
		key: DefaultKey,
		getSQL: `SELECT blob FROM daoforge_checkpoints WHERE key = ?`,
		upsertSQL: `INSERT INTO daoforge_checkpoints (key, blob) VALUES (?, ?)
			ON CONFLICT (key) DO UPDATE SET blob = excluded.blob,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		clearSQL: `DELETE FROM daoforge_checkpoints WHERE key = ?`,
	}, nil
}

func (s *SQLStore) Get() (json.RawMessage, error) {
	var blob string
	err := s.db.QueryRow(s.getSQL, s.key).Scan(&blob)
	if err == sql.ErrNoRows {
		return emptyObject, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if blob == "" {
		return emptyObject, nil
	}
	return json.RawMessage(blob), nil
}

func (s *SQLStore) Set(blob json.RawMessage) error {
	blob = normalizeBlob(blob)
	if _, err := s.db.Exec(s.upsertSQL, s.key, string(blob)); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

func (s *SQLStore) Clear() error {
	if _, err := s.db.Exec(s.clearSQL, s.key); err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
