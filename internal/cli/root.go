// Package cli wires the pair-engine commands.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion overrides the version printed by --version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "pair-engine",
		Version: version,
		Short:   "Find the pair of employees who worked together the longest",
		Long: `pair-engine reads "EmployeeID, ProjectID, DateFrom, DateTo" rows and reports the
two employees with the most calendar days worked together on shared projects.

Run "serve" for the upload/analyze HTTP API or "analyze" for a one-off file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(newServeCmd(), newAnalyzeCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
