package report

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "recdiff: %d compared, %d matched, %d mismatched, %d A-only, %d B-only\n",
		report.Summary.Compared,
		report.Summary.Matched,
		report.Summary.Mismatched,
		report.Summary.AOnly,
		report.Summary.BOnly)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Comparison Report ===")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "fileA: %s (%d records)\n", report.Metadata.FileA, report.Summary.RecordsA)
	fmt.Fprintf(w, "fileB: %s (%d records)\n", report.Metadata.FileB, report.Summary.RecordsB)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Exclusive to fileA: %d\n", report.Summary.AOnly)
	if report.Metadata.AOnlyDump != "" {
		fmt.Fprintf(w, "  written to %s\n", report.Metadata.AOnlyDump)
	}
	fmt.Fprintf(w, "Exclusive to fileB: %d\n", report.Summary.BOnly)
	if report.Metadata.BOnlyDump != "" {
		fmt.Fprintf(w, "  written to %s\n", report.Metadata.BOnlyDump)
	}
	if report.Summary.DuplicatesA > 0 || report.Summary.DuplicatesB > 0 {
		fmt.Fprintf(w, "Duplicate keys: fileA %d, fileB %d\n",
			report.Summary.DuplicatesA, report.Summary.DuplicatesB)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Rows compared:   %d\n", report.Summary.Compared)
	fmt.Fprintf(w, "Rows matched:    %d\n", report.Summary.Matched)
	fmt.Fprintf(w, "Rows mismatched: %d\n", report.Summary.Mismatched)
	if report.Summary.Skipped > 0 {
		fmt.Fprintf(w, "Rows skipped:    %d\n", report.Summary.Skipped)
	}

	if len(report.Fields) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Field mismatch counts:")
		for _, fs := range report.Fields {
			fmt.Fprintf(w, "  %-20s %d\n", fs.Name, fs.Count)
		}
	}

	if len(report.Samples) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Sample differences:")
		for _, s := range report.Samples {
			fmt.Fprintf(w, "  line %d key=%v %s: %q vs %q\n",
				s.Ordinal, s.KeyValues, s.FieldName, s.ValueA, s.ValueB)
		}
	}

	if f.opts.Verbose {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}
