package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "daoforge",
	Short: "DAOforge deploys decentralized organizations from a declarative spec.",
	Long: `DAOforge deploys decentralized organizations from a declarative spec.

Describe your organization's token, founding members, and governance schemes
in a dao.json (or YAML) file, then deploy it with a registered migration
engine. Deployment progress is checkpointed so an interrupted run resumes
where it left off.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
