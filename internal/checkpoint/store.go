// Package checkpoint persists a migration engine's resume blob under a
// single fixed key. The blob is a JSON document the engine alone
// understands; the store never interprets it.
//
// Three backends are supported, selected by the shape of the target URL the
// same way database connection strings are classified elsewhere in the tool:
// a plain JSON file (the default), SQLite (file path, :memory:, sqlite:// or
// libsql:// URL), and PostgreSQL (postgres:// URL).
package checkpoint

import (
	"encoding/json"
	"strings"
)

// DefaultKey is the fixed storage key for migration checkpoints. One
// migration per store; concurrent migrations against the same key are not
// supported.
const DefaultKey = "dao-migration-checkpoint"

// DefaultFile is the default checkpoint location when no checkpoint_url is
// configured.
const DefaultFile = ".daoforge-checkpoint.json"

// emptyObject is what Get returns when no checkpoint exists.
var emptyObject = json.RawMessage("{}")

// Store is durable last-write-wins storage for one checkpoint blob.
type Store interface {
	// Get returns the persisted blob, or an empty JSON object if none
	// exists.
	Get() (json.RawMessage, error)

	// Set persists blob, overwriting any prior value.
	Set(blob json.RawMessage) error

	// Clear deletes the persisted blob. Clearing an empty store is not an
	// error.
	Clear() error

	Close() error
}

// Open creates a store for the given target.
func Open(target string) (Store, error) {
	switch {
	case isPostgresURL(target):
		return OpenPostgres(target)
	case isSQLiteTarget(target):
		return OpenSQLite(target)
	default:
		return NewFileStore(target), nil
	}
}

func isPostgresURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

func isSQLiteTarget(s string) bool {
	lower := strings.ToLower(s)
	if lower == ":memory:" {
		return true
	}
	if strings.HasPrefix(lower, "libsql://") || strings.HasPrefix(lower, "sqlite://") || strings.HasPrefix(lower, "file:") {
		return true
	}
	return strings.HasSuffix(lower, ".db") ||
		strings.HasSuffix(lower, ".sqlite") ||
		strings.HasSuffix(lower, ".sqlite3")
}

// normalizeBlob treats nil and empty input as the empty object so that
// stores never hand back invalid JSON.
func normalizeBlob(blob json.RawMessage) json.RawMessage {
	if len(blob) == 0 {
		return emptyObject
	}
	return blob
}
