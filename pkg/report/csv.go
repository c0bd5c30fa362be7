package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
)

// CSVFormatter renders the report in the tool's historical CSV layout:
// header rows with file paths and counts, exclusive-record counts and dump
// references, match totals, the per-field mismatch-count table, and the
// sample-difference table.
type CSVFormatter struct {
	opts FormatOptions
}

// NewCSVFormatter creates a CSV formatter with the given options.
func NewCSVFormatter(opts FormatOptions) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

// Name returns the format name.
func (f *CSVFormatter) Name() string {
	return "csv"
}

// Format renders the report as CSV rows.
func (f *CSVFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"fileA", report.Metadata.FileA, strconv.Itoa(report.Summary.RecordsA)},
		{"fileB", report.Metadata.FileB, strconv.Itoa(report.Summary.RecordsB)},
		{"Number of recs exclusive to FileA", strconv.Itoa(report.Summary.AOnly)},
		{"Number of recs exclusive to FileB", strconv.Itoa(report.Summary.BOnly)},
	}

	if report.Metadata.AOnlyDump != "" {
		rows = append(rows, []string{"FileA Only recs written to: ", report.Metadata.AOnlyDump})
	}
	if report.Metadata.BOnlyDump != "" {
		rows = append(rows, []string{"FileB Only recs written to: ", report.Metadata.BOnlyDump})
	}
	if report.Summary.DuplicatesA > 0 {
		rows = append(rows, []string{"Duplicate keys in FileA", strconv.Itoa(report.Summary.DuplicatesA)})
	}
	if report.Summary.DuplicatesB > 0 {
		rows = append(rows, []string{"Duplicate keys in FileB", strconv.Itoa(report.Summary.DuplicatesB)})
	}

	rows = append(rows,
		[]string{"Rows compared", strconv.Itoa(report.Summary.Compared)},
		[]string{"Rows matched", strconv.Itoa(report.Summary.Matched)},
		[]string{"Rows mismatched", strconv.Itoa(report.Summary.Mismatched)},
	)
	if report.Summary.Skipped > 0 {
		rows = append(rows, []string{"Rows skipped", strconv.Itoa(report.Summary.Skipped)})
	}

	rows = append(rows,
		[]string{},
		[]string{"Data Element mismatched stats:"},
		[]string{"Field Name", "Diff Count"},
	)
	for _, fs := range report.Fields {
		rows = append(rows, []string{fs.Name, strconv.Itoa(fs.Count)})
	}

	rows = append(rows, []string{}, []string{"Sample differences:"})

	header := []string{"Line#"}
	header = append(header, report.KeyFieldNames...)
	header = append(header, "Field Name", "FileA Value", "FileB Value")
	rows = append(rows, header)

	for _, s := range report.Samples {
		row := []string{strconv.Itoa(s.Ordinal)}
		row = append(row, s.KeyValues...)
		row = append(row, s.FieldName, s.ValueA, s.ValueB)
		rows = append(rows, row)
	}

	for _, row := range rows {
		// encoding/csv refuses zero-field records; blank separator rows
		// become a single empty field.
		if len(row) == 0 {
			row = []string{""}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
