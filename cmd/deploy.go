package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/daoforge/daoforge/internal/config"
	"github.com/daoforge/daoforge/internal/engine"
	"github.com/daoforge/daoforge/internal/engine/simulator"
	"github.com/daoforge/daoforge/internal/provider"
	"github.com/daoforge/daoforge/internal/session"
	"github.com/daoforge/daoforge/internal/spec"
)

var deployCmd = &cobra.Command{
	Use:   "deploy <spec-file>",
	Short: "Deploy an organization from a deployment spec",
	Long: `Deploy an organization's contracts from a deployment spec.

The spec (JSON or YAML) describes the token, founding members, and
governance schemes. A registered migration engine performs the on-chain
work; daoforge tracks the migration session and checkpoints progress so an
interrupted deployment can resume on the next run.`,
	Example: `  # Deploy against the default environment
  daoforge deploy dao.json

  # Deploy to a named environment without approval prompts
  daoforge deploy dao.json --environment staging --auto-approve

  # Merge a founder list from CSV before deploying
  daoforge deploy dao.json --members founders.csv`,
	Args: cobra.ExactArgs(1),
	Run:  runDeploy,
}

var (
	dpEnvironment string
	dpEngine      string
	dpCheckpoint  string
	dpMembersCSV  string
	dpAutoApprove bool
	dpDryRun      bool
	dpVerbose     bool
)

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringVar(&dpEnvironment, "environment", "", "Target environment from daoforge.toml")
	deployCmd.Flags().StringVar(&dpEngine, "engine", simulator.Name, "Registered migration engine to use")
	deployCmd.Flags().StringVar(&dpCheckpoint, "checkpoint", "", "Checkpoint location (file path, SQLite, or postgres:// URL)")
	deployCmd.Flags().StringVar(&dpMembersCSV, "members", "", "CSV file of founding members to merge into the spec")
	deployCmd.Flags().BoolVar(&dpAutoApprove, "auto-approve", false, "Automatically approve engine prompts")
	deployCmd.Flags().BoolVar(&dpDryRun, "dry-run", false, "Validate and show what would be deployed without deploying")
	deployCmd.Flags().BoolVarP(&dpVerbose, "verbose", "v", false, "Enable verbose output")
}

func runDeploy(cmd *cobra.Command, args []string) {
	specPath := args[0]

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	env, err := config.ResolveEnvironment(cfg, dpEnvironment)
	if err != nil {
		log.Fatalf("Failed to resolve environment: %v", err)
	}
	if env.RPCURL == "" {
		fmt.Println(`No RPC endpoint configured. Create a daoforge.toml that looks like:

[environments.local]
rpc_url = "http://localhost:8545"
chain_id = 1337

or run: daoforge init`)
		os.Exit(1)
	}

	// Load and validate the deployment spec
	dao, raw, err := spec.Load(specPath)
	if err != nil {
		log.Fatalf("Failed to load deployment spec: %v", err)
	}

	// Merge founding members from CSV
	if dpMembersCSV != "" {
		members, err := spec.LoadMembersCSV(dpMembersCSV)
		if err != nil {
			log.Fatalf("Failed to load members: %v", err)
		}
		dao.Members = append(dao.Members, members...)
		raw, err = dao.Marshal()
		if err != nil {
			log.Fatalf("Failed to rebuild spec: %v", err)
		}
		if err := spec.Validate(raw); err != nil {
			log.Fatalf("Spec invalid after merging members: %v", err)
		}
	}

	// Display deployment summary
	fmt.Printf("\n")
	fmt.Printf("📋 Organization: %s\n", dao.OrgName)
	fmt.Printf("Token: %s (%s)\n", dao.Token.Name, dao.Token.Symbol)
	fmt.Printf("Members: %d\n", len(dao.Members))
	if len(dao.Schemes) > 0 {
		fmt.Printf("Schemes:\n")
		for _, s := range dao.Schemes {
			fmt.Printf("  • %s\n", s.Kind)
		}
	}
	fmt.Printf("Environment: %s (%s)\n", env.Name, env.RPCURL)
	fmt.Printf("\n")

	if dpDryRun {
		fmt.Println("🔍 DRY RUN: No transactions will be sent")
		return
	}

	// Instantiate the migration engine
	eng, err := engine.Open(dpEngine)
	if err != nil {
		log.Fatalf("Failed to open migration engine: %v", err)
	}

	// Open the checkpoint store
	store, err := openCheckpointStore(dpCheckpoint, env)
	if err != nil {
		log.Fatalf("Failed to open checkpoint store: %v", err)
	}
	defer func() { _ = store.Close() }()

	host := newTerminalHost(dpAutoApprove, dpVerbose)

	sess, err := session.New(session.Config{
		Resolver: &provider.HTTPResolver{
			RPCURL:  env.RPCURL,
			ChainID: env.ChainID,
			Account: env.DefaultAccount,
		},
		Engine:      eng,
		Checkpoints: store,
		Host:        host,
		Guard:       newSignalGuard(),
		LogSink:     host.Render,
	})
	if err != nil {
		log.Fatalf("Failed to create migration session: %v", err)
	}

	ctx := context.Background()
	if err := sess.Start(ctx, raw); err != nil {
		if errors.Is(err, provider.ErrNoProvider) {
			errorColor.Fprintln(os.Stderr, "No provider available. Check the RPC endpoint and try again.")
			os.Exit(1)
		}
		log.Fatalf("Failed to start migration: %v", err)
	}

	<-host.done

	snap := sess.Snapshot()
	fmt.Printf("\nTotal cost: %g\n", snap.CumulativeCost)
	if snap.Phase != session.PhaseCompleted {
		os.Exit(1)
	}
}
