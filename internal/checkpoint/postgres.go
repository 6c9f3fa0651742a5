package checkpoint

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS daoforge_checkpoints (
	key TEXT PRIMARY KEY,
	blob JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// OpenPostgres opens a Postgres-backed store. Useful when several operators
// share one resumable deployment.
func OpenPostgres(url string) (*SQLStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping checkpoint database: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create checkpoint table: %w", err)
	}

	return &SQLStore{
		db:  db,
		key: DefaultKey,
		getSQL: `SELECT blob FROM daoforge_checkpoints WHERE key = $1`,
		upsertSQL: `INSERT INTO daoforge_checkpoints (key, blob) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET blob = excluded.blob, updated_at = now()`,
		clearSQL: `DELETE FROM daoforge_checkpoints WHERE key = $1`,
	}, nil
}
