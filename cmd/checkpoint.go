package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/daoforge/daoforge/internal/config"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Inspect or clear the deployment checkpoint",
}

var checkpointShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the raw checkpoint blob",
	Run:   runCheckpointShow,
}

var checkpointClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the deployment checkpoint",
	Long: `Delete the deployment checkpoint.

The next deploy starts from scratch instead of resuming. The engine
normally clears the checkpoint itself when a deployment completes; this
command is for abandoning a failed deployment's resume data.`,
	Run: runCheckpointClear,
}

var (
	cpEnvironment string
	cpCheckpoint  string
)

func init() {
	rootCmd.AddCommand(checkpointCmd)
	checkpointCmd.AddCommand(checkpointShowCmd)
	checkpointCmd.AddCommand(checkpointClearCmd)

	checkpointCmd.PersistentFlags().StringVar(&cpEnvironment, "environment", "", "Target environment from daoforge.toml")
	checkpointCmd.PersistentFlags().StringVar(&cpCheckpoint, "checkpoint", "", "Checkpoint location (file path, SQLite, or postgres:// URL)")
}

func runCheckpointShow(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	env, err := config.ResolveEnvironment(cfg, cpEnvironment)
	if err != nil {
		log.Fatalf("Failed to resolve environment: %v", err)
	}

	store, err := openCheckpointStore(cpCheckpoint, env)
	if err != nil {
		log.Fatalf("Failed to open checkpoint store: %v", err)
	}
	defer func() { _ = store.Close() }()

	blob, err := store.Get()
	if err != nil {
		log.Fatalf("Failed to read checkpoint: %v", err)
	}
	fmt.Println(string(blob))
}

func runCheckpointClear(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	env, err := config.ResolveEnvironment(cfg, cpEnvironment)
	if err != nil {
		log.Fatalf("Failed to resolve environment: %v", err)
	}

	store, err := openCheckpointStore(cpCheckpoint, env)
	if err != nil {
		log.Fatalf("Failed to open checkpoint store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Clear(); err != nil {
		log.Fatalf("Failed to clear checkpoint: %v", err)
	}
	fmt.Println("Checkpoint cleared.")
}
