package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recdiff/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a recdiff configuration file without running a comparison.

Checks:
  - Syntax (key=value or YAML)
  - Required keys (fileA, fileB, reportfile)
  - Mode resolution (delimiters or column widths)
  - Field position lists (1-based, well-formed)
  - Input file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	mode, _ := cfg.Mode()

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Mode:          %s\n", mode)
	fmt.Fprintf(out, "  fileA:         %s\n", cfg.FileA)
	fmt.Fprintf(out, "  fileB:         %s\n", cfg.FileB)
	fmt.Fprintf(out, "  Report file:   %s\n", cfg.ReportFile)
	fmt.Fprintf(out, "  Skip records:  %d\n", cfg.SkipRecords)
	if len(cfg.KeyFields) > 0 {
		fmt.Fprintf(out, "  Key fields:    %v\n", cfg.KeyFields)
	} else {
		fmt.Fprintf(out, "  Key fields:    (none - whole record is the key)\n")
	}
	if len(cfg.IgnoreFields) > 0 {
		fmt.Fprintf(out, "  Ignore fields: %v\n", cfg.IgnoreFields)
	}
	if cfg.SampleThreshold > 0 {
		fmt.Fprintf(out, "  Sample cap:    %d per field\n", cfg.SampleThreshold)
	}

	// Input file existence is a warning, not an error: the files may be
	// produced later by an upstream job.
	for _, path := range []string{cfg.FileA, cfg.FileB} {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(out, "\nWarning: input file not accessible: %s\n", path)
		}
	}

	return nil
}
