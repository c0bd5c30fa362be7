// Package cli provides the command-line interface for recdiff.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recdiff/internal/cli/commands"
	"recdiff/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	// An unknown first argument may name a plugin binary.
	if name, ok := pluginCandidate(rootCmd); ok {
		if path, err := plugins.Find(name); err == nil {
			return plugins.Run(path, os.Args[2:])
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if name, ok := pluginCandidate(rootCmd); ok {
			_, _ = fmt.Fprintln(os.Stderr, plugins.NotFoundMessage(name))
			return 2
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// pluginCandidate returns the first CLI argument when it is not a flag and
// not a built-in command.
func pluginCandidate(rootCmd *cobra.Command) (string, bool) {
	if len(os.Args) < 2 {
		return "", false
	}
	name := os.Args[1]
	if name == "" || name[0] == '-' {
		return "", false
	}
	if name == "help" || name == "completion" {
		return "", false
	}
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return "", false
		}
	}
	return name, true
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recdiff",
		Short: "Reconcile two record-oriented text files by key",
		Long: `recdiff performs a key-based reconciliation of two record-oriented text
files (delimited or fixed-width) and produces a report with:

  - Records exclusive to either file
  - Field-level differences for records present in both
  - Aggregate statistics (match counts, per-field mismatch counts,
    sampled mismatch instances)

PLUGINS:
  recdiff supports plugins for extended functionality. Plugins are standalone
  binaries named recdiff-<command> that are automatically discovered and
  invoked for unknown commands.

  Plugin locations (searched in order):
    1. Same directory as the recdiff binary
    2. ~/.recdiff/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
