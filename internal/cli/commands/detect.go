package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"recdiff/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <data-file>",
		Short: "Detect the record layout of a data file",
		Long: `Analyze a data file to detect its record layout.

Samples lines from the file and scores candidate field delimiters by how
consistently they split the sample into a fixed field count. Also reports a
fixed-width hint when every sampled line has the same byte length.

Prints a ready-to-use config snippet for the best candidate; optionally
writes a starter config file with --write-config.

Example:
  recdiff detect extract_a.dat
  recdiff detect --sample 500 big_extract.dat
  recdiff detect --write-config compare.cfg extract_a.dat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.SampleSize, "sample", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all matching candidates, not just the best")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write a starter config file to this path")

	return cmd
}

func runDetect(cmd *cobra.Command, path string, opts *DetectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Sampled %d line(s) from %s\n\n", result.SampledLines, path)

	if result.UniformWidth > 0 {
		fmt.Fprintf(out, "All sampled lines are %d bytes: possible fixed-width layout\n", result.UniformWidth)
		fmt.Fprintf(out, "  (set colwidths to the column byte widths, summing to %d)\n\n", result.UniformWidth)
	}

	if len(result.Candidates) == 0 {
		fmt.Fprintln(out, "No delimiter candidate matched.")
		if result.UniformWidth == 0 {
			fmt.Fprintln(out, "The file may be fixed-width with variable trailing padding, or single-field.")
		}
		return nil
	}

	candidates := result.Candidates
	if !opts.ShowAll {
		candidates = candidates[:1]
	}

	for _, c := range candidates {
		fmt.Fprintf(out, "Delimiter %-10s %q: %d field(s), %.0f%% of lines consistent (%d/%d)\n",
			c.Name, string(c.Delimiter), c.FieldCount,
			c.Confidence*100, c.MatchCount, result.SampledLines)
	}

	best := result.Best()
	snippet := configSnippet(path, best)

	fmt.Fprintf(out, "\nConfig snippet:\n\n%s", snippet)

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(opts.WriteConfig, snippet); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nStarter config written to %s\n", opts.WriteConfig)
	}

	return nil
}

// configSnippet renders a legacy key=value starter config for the detected
// layout.
func configSnippet(path string, best *detector.Candidate) string {
	var b strings.Builder
	delim := string(best.Delimiter)
	if best.Delimiter == '\t' {
		// A literal tab would be trimmed away when the config is loaded;
		// the delimiter keys understand the \t escape.
		delim = `\t`
	}
	fmt.Fprintf(&b, "fileA=%s\n", path)
	fmt.Fprintf(&b, "fileB=CHANGE_ME\n")
	fmt.Fprintf(&b, "reportfile=report.csv\n")
	fmt.Fprintf(&b, "fileADel=%s\n", delim)
	fmt.Fprintf(&b, "fileBDel=%s\n", delim)
	fmt.Fprintf(&b, "skipRecs=0\n")
	fmt.Fprintf(&b, "# 1-based field positions forming the record key\n")
	fmt.Fprintf(&b, "keyfields=1\n")
	return b.String()
}

func writeStarterConfig(path, snippet string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("writing starter config: %w", err)
	}
	if _, err := io.WriteString(f, snippet); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
