package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"recdiff/pkg/config"
	"recdiff/pkg/detector"
	"recdiff/pkg/record"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Diagnose common configuration issues",
		Long: `Diagnose common configuration issues.

This command checks your configuration file for common problems:
- Config file syntax and structure
- Input file existence and accessibility
- Configured layout (delimiter or column widths) against actual file content
- Key field positions against actual record arity
- Report path writability

Example:
  recdiff diagnose compare.cfg
  recdiff diagnose -v compare.cfg  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(cmd *cobra.Command, configPath string, opts *DiagnoseOptions) error {
	out := cmd.OutOrStdout()
	results := []DiagnosticResult{}

	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(out, results, opts)
		return nil
	}

	cfg, result := checkConfigParseable(configPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(out, results, opts)
		return nil
	}

	results = append(results, checkInputFiles(cfg)...)
	results = append(results, checkLayout(cfg, opts)...)
	results = append(results, checkReportPath(cfg))

	printDiagnostics(out, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{Check: "Config File"}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'recdiff detect <data-file> --write-config compare.cfg' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Config file is empty"
		result.Suggests = []string{
			"Use 'recdiff detect <data-file> --write-config compare.cfg' to generate a starter config",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{Check: "Config Syntax"}

	cfg, err := config.Load(context.Background(), path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to parse config: %v", err)
		if strings.Contains(err.Error(), "unknown config key") {
			result.Suggests = []string{
				"Check the key spelling against the documented config keys",
			}
		}
		return nil, result
	}

	mode, _ := cfg.Mode()
	result.Status = "ok"
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Mode: %s", mode),
		fmt.Sprintf("Key fields: %v", cfg.KeyFields),
	}
	return cfg, result
}

func checkInputFiles(cfg *config.Config) []DiagnosticResult {
	results := []DiagnosticResult{}

	for _, in := range []struct{ name, path string }{
		{"fileA", cfg.FileA},
		{"fileB", cfg.FileB},
	} {
		result := DiagnosticResult{Check: fmt.Sprintf("Input %s: %s", in.name, in.path)}

		info, err := os.Stat(in.path)
		switch {
		case os.IsNotExist(err):
			result.Status = "error"
			result.Message = "File does not exist"
			result.Suggests = []string{"Check if the input file path is correct"}
		case err != nil:
			result.Status = "error"
			result.Message = fmt.Sprintf("Cannot access file: %v", err)
			result.Suggests = []string{"Check file permissions"}
		case info.IsDir():
			result.Status = "error"
			result.Message = "Path is a directory, not a file"
		case info.Size() == 0:
			result.Status = "warning"
			result.Message = "File is empty (0 bytes)"
		default:
			result.Status = "ok"
			result.Message = fmt.Sprintf("File exists (%d bytes)", info.Size())
		}
		results = append(results, result)
	}

	return results
}

// checkLayout tests the configured layout against sampled file content:
// delimiter consistency and key-field positions for delimited mode, width
// sums for fixed-width mode.
func checkLayout(cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}
	mode, err := cfg.Mode()
	if err != nil {
		return results
	}

	for _, in := range []struct {
		name, path string
		delimiter  string
	}{
		{"fileA", cfg.FileA, cfg.FileADelimiter},
		{"fileB", cfg.FileB, cfg.FileBDelimiter},
	} {
		lines, err := sampleLines(in.path, 10)
		if err != nil || len(lines) == 0 {
			continue
		}

		result := DiagnosticResult{Check: fmt.Sprintf("Layout Test: %s", filepath.Base(in.path))}

		var fields []string
		if mode == config.ModeDelimited {
			fields = strings.Split(lines[0], in.delimiter)
			matchCount := 0
			for _, line := range lines {
				if strings.Count(line, in.delimiter) > 0 {
					matchCount++
				}
			}

			switch {
			case matchCount == 0:
				result.Status = "error"
				result.Message = fmt.Sprintf("Delimiter %q appears in none of %d sample lines", in.delimiter, len(lines))
				result.Suggests = []string{
					"The configured delimiter may not match the file",
					"Use 'recdiff detect " + in.path + "' to find the likely delimiter",
				}
				// Auto-detect and suggest
				d := detector.New(detector.WithSampleSize(10))
				if detResult, err := d.DetectFromFile(context.Background(), in.path); err == nil {
					if best := detResult.Best(); best != nil {
						result.Suggests = append(result.Suggests,
							fmt.Sprintf("Detected delimiter: %s (%q), %d fields", best.Name, string(best.Delimiter), best.FieldCount))
					}
				}
			case matchCount < len(lines):
				result.Status = "warning"
				result.Message = fmt.Sprintf("Delimiter %q appears in only %d/%d sample lines", in.delimiter, matchCount, len(lines))
			default:
				result.Status = "ok"
				result.Message = fmt.Sprintf("Delimiter %q splits sample lines into %d field(s)", in.delimiter, len(fields))
				if opts.Verbose {
					result.Details = []string{"Sample line:", truncate(lines[0], 80)}
				}
			}
		} else {
			fields = record.SliceWidths(lines[0], cfg.ColumnWidths)
			total := 0
			for _, w := range cfg.ColumnWidths {
				total += w
			}
			short := 0
			for _, line := range lines {
				if len(line) < total {
					short++
				}
			}
			if short > 0 {
				result.Status = "warning"
				result.Message = fmt.Sprintf("%d/%d sample lines are shorter than the %d bytes colwidths declare", short, len(lines), total)
				result.Suggests = []string{"Short lines yield truncated or empty trailing fields"}
			} else {
				result.Status = "ok"
				result.Message = fmt.Sprintf("Column widths (%d bytes total) fit all sample lines", total)
			}
		}
		results = append(results, result)

		// Key fields must fall inside the record arity.
		if len(cfg.KeyFields) > 0 {
			keyResult := DiagnosticResult{Check: fmt.Sprintf("Key Fields: %s", filepath.Base(in.path))}
			outOfRange := []int{}
			for _, p := range cfg.KeyFields {
				if p > len(fields) {
					outOfRange = append(outOfRange, p)
				}
			}
			if len(outOfRange) > 0 {
				keyResult.Status = "error"
				keyResult.Message = fmt.Sprintf("Key field position(s) %v exceed record arity %d", outOfRange, len(fields))
				keyResult.Suggests = []string{"keyfields positions are 1-based and must be within the field count"}
			} else {
				keyResult.Status = "ok"
				keyResult.Message = fmt.Sprintf("All key fields within record arity (%d)", len(fields))
			}
			results = append(results, keyResult)
		}

		if in.name == "fileA" && mode == config.ModeFixedWidth {
			// Both files share column widths; one arity check suffices.
			break
		}
	}

	return results
}

func checkReportPath(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{Check: "Report Path"}

	dir := filepath.Dir(cfg.ReportFile)
	info, err := os.Stat(dir)
	switch {
	case err != nil:
		result.Status = "error"
		result.Message = fmt.Sprintf("Report directory not accessible: %s", dir)
		result.Suggests = []string{"Create the directory before running the comparison"}
	case !info.IsDir():
		result.Status = "error"
		result.Message = fmt.Sprintf("Report parent path is not a directory: %s", dir)
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("Report directory exists: %s", dir)
	}
	return result
}

func sampleLines(path string, n int) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths from config
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for len(lines) < n && scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func printDiagnostics(out io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(out, "=== recdiff Configuration Diagnostics ===")
	fmt.Fprintln(out)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(out, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(out, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(out, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(out, "      Hint: %s\n", s)
		}

		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "---")
	fmt.Fprintf(out, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(out, "\nFix the errors above before running a comparison.")
	} else if warnCount > 0 {
		fmt.Fprintln(out, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(out, "\nConfiguration looks good!")
	}
}
