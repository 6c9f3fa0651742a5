package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/daoforge/daoforge/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a resumable deployment checkpoint exists",
	Run:   runStatus,
}

var (
	stEnvironment string
	stCheckpoint  string
)

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&stEnvironment, "environment", "", "Target environment from daoforge.toml")
	statusCmd.Flags().StringVar(&stCheckpoint, "checkpoint", "", "Checkpoint location (file path, SQLite, or postgres:// URL)")
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	env, err := config.ResolveEnvironment(cfg, stEnvironment)
	if err != nil {
		log.Fatalf("Failed to resolve environment: %v", err)
	}

	target := resolveCheckpointURL(stCheckpoint, env)
	store, err := openCheckpointStore(stCheckpoint, env)
	if err != nil {
		log.Fatalf("Failed to open checkpoint store: %v", err)
	}
	defer func() { _ = store.Close() }()

	blob, err := store.Get()
	if err != nil {
		log.Fatalf("Failed to read checkpoint: %v", err)
	}

	fmt.Printf("Checkpoint store: %s\n", target)
	if isEmptyCheckpoint(blob) {
		fmt.Println("No deployment checkpoint found.")
		return
	}

	successColor.Println("Resumable deployment checkpoint found.")
	fmt.Printf("  %d bytes\n", len(blob))
	fmt.Println("Run 'daoforge deploy' to resume, or 'daoforge checkpoint clear' to discard.")
}

// isEmptyCheckpoint treats the empty-object default as "no checkpoint".
func isEmptyCheckpoint(blob json.RawMessage) bool {
	var v map[string]json.RawMessage
	if err := json.Unmarshal(blob, &v); err != nil {
		return false
	}
	return len(v) == 0
}
