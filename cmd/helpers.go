package cmd

import (
	"github.com/daoforge/daoforge/internal/checkpoint"
	"github.com/daoforge/daoforge/internal/config"
)

// resolveCheckpointURL picks the checkpoint target: explicit flag, then the
// environment's checkpoint_url, then the default file next to the config.
func resolveCheckpointURL(explicit string, env *config.ResolvedEnvironment) string {
	if explicit != "" {
		return explicit
	}
	if env != nil && env.CheckpointURL != "" {
		return env.CheckpointURL
	}
	return checkpoint.DefaultFile
}

// openCheckpointStore resolves and opens the checkpoint store for a command.
func openCheckpointStore(explicit string, env *config.ResolvedEnvironment) (checkpoint.Store, error) {
	return checkpoint.Open(resolveCheckpointURL(explicit, env))
}
