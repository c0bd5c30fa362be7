package report

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// quietReport is the reduced quiet-mode payload: the run identity and the
// summary counts, without field stats or samples.
type quietReport struct {
	FileA      string
	FileB      string
	ComparedAt time.Time
	Summary    Summary
}

// Format renders the report as JSON. Quiet mode drops the field stats and
// sample table, keeping only the input paths and summary counts.
func (f *JSONFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(quietReport{
			FileA:      report.Metadata.FileA,
			FileB:      report.Metadata.FileB,
			ComparedAt: report.Metadata.ComparedAt,
			Summary:    report.Summary,
		})
	}

	return encoder.Encode(report)
}
