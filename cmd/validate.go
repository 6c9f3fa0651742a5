package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/daoforge/daoforge/internal/spec"
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec-file>",
	Short: "Validate a deployment spec",
	Long:  `Validate a deployment spec against the DAO schema without deploying anything.`,
	Example: `  # Validate a spec (text output)
  daoforge validate dao.json

  # Validate with JSON output
  daoforge validate --format json dao.json`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

var vdFormat string

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&vdFormat, "format", "text", "Output format: text or json")
}

// validationReport is the JSON output shape for programmatic consumers.
type validationReport struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) {
	path := args[0]

	dao, _, err := spec.Load(path)

	report := validationReport{File: path, Valid: err == nil}
	if err != nil {
		var verr *spec.ValidationError
		if errors.As(err, &verr) {
			report.Issues = verr.Issues
		} else {
			report.Issues = []string{err.Error()}
		}
	}

	if vdFormat == "json" {
		data, merr := json.MarshalIndent(report, "", "  ")
		if merr != nil {
			log.Fatalf("Failed to marshal report: %v", merr)
		}
		fmt.Println(string(data))
		if !report.Valid {
			os.Exit(1)
		}
		return
	}

	if !report.Valid {
		errorColor.Printf("✗ %s is invalid\n", path)
		for _, issue := range report.Issues {
			fmt.Printf("  - %s\n", issue)
		}
		os.Exit(1)
	}

	successColor.Printf("✓ %s is valid\n", path)
	fmt.Printf("  Organization: %s\n", dao.OrgName)
	fmt.Printf("  Token: %s (%s)\n", dao.Token.Name, dao.Token.Symbol)
	fmt.Printf("  Members: %d, Schemes: %d\n", len(dao.Members), len(dao.Schemes))
}
