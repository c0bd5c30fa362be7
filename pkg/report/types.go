// Package report renders reconciliation results as report files and
// exclusive-record dumps.
package report

import (
	"fmt"
	"time"

	"recdiff/pkg/config"
	"recdiff/pkg/recon"
)

// Report is the complete comparison output handed to formatters.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary

	// Fields lists per-field mismatch counts, ordered by field position.
	Fields []FieldStat

	// Samples holds the retained mismatch instances in collection order.
	Samples []SampleRow

	// KeyFieldNames are the display names of the key fields, used as
	// sample-table columns.
	KeyFieldNames []string

	// Metadata provides context about the run.
	Metadata Metadata
}

// Summary provides aggregate statistics.
type Summary struct {
	// RecordsA and RecordsB are the distinct keyed record counts.
	RecordsA int
	RecordsB int

	// AOnly and BOnly count records exclusive to each file.
	AOnly int
	BOnly int

	// DuplicatesA and DuplicatesB count duplicate-key overwrites.
	DuplicatesA int
	DuplicatesB int

	// Compared, Matched, Mismatched are the common-key totals.
	Compared   int
	Matched    int
	Mismatched int

	// Skipped counts record pairs that failed differencing.
	Skipped int
}

// FieldStat is the mismatch count for one field.
type FieldStat struct {
	// Position is the 1-based field position.
	Position int

	// Name is the field's display name.
	Name string

	// Count is the number of record pairs where the field differed.
	Count int
}

// SampleRow is one line of the sample-difference table.
type SampleRow struct {
	// Ordinal is the 1-based position in the common-key iteration.
	Ordinal int

	// KeyValues are the record's key field values.
	KeyValues []string

	// FieldName is the display name of the differing field.
	FieldName string

	// Position is the 1-based differing field position.
	Position int

	// ValueA and ValueB are the differing values.
	ValueA string
	ValueB string
}

// Metadata provides context about the comparison run.
type Metadata struct {
	// FileA and FileB are the compared input paths.
	FileA string
	FileB string

	// ConfigFile is the configuration file that drove the run.
	ConfigFile string

	// AOnlyDump and BOnlyDump are the exclusive-record dump paths, when
	// written.
	AOnlyDump string
	BOnlyDump string

	// ComparedAt is when the comparison completed.
	ComparedAt time.Time

	// Duration is how long the run took.
	Duration time.Duration
}

// NewReport builds a Report from a reconciliation result.
// fieldNames are the display names from the meta file; when absent, names
// fall back to "Column N" over the arity of fileA's first record.
func NewReport(res *recon.Result, cfg *config.Config, configFile string, fieldNames []string) *Report {
	if len(fieldNames) == 0 {
		fieldNames = make([]string, 0, res.Arity)
		for i := 1; i <= res.Arity; i++ {
			fieldNames = append(fieldNames, fmt.Sprintf("Column %d", i))
		}
	}

	r := &Report{
		Summary: Summary{
			RecordsA:    res.RecordsA,
			RecordsB:    res.RecordsB,
			AOnly:       len(res.AOnly),
			BOnly:       len(res.BOnly),
			DuplicatesA: res.DuplicatesA,
			DuplicatesB: res.DuplicatesB,
			Compared:    res.Compared,
			Matched:     res.Matched,
			Mismatched:  res.Mismatched(),
			Skipped:     len(res.Skipped),
		},
		KeyFieldNames: keyFieldNames(cfg.KeyFields, fieldNames),
		Metadata: Metadata{
			FileA:      cfg.FileA,
			FileB:      cfg.FileB,
			ConfigFile: configFile,
			ComparedAt: res.EndTime,
			Duration:   res.EndTime.Sub(res.StartTime),
		},
	}

	if len(res.AOnly) > 0 {
		r.Metadata.AOnlyDump = cfg.FileAOnly
	}
	if len(res.BOnly) > 0 {
		r.Metadata.BOnlyDump = cfg.FileBOnly
	}

	for pos := 1; pos <= maxPosition(res.DiffCounts); pos++ {
		count, ok := res.DiffCounts[pos]
		if !ok {
			continue
		}
		r.Fields = append(r.Fields, FieldStat{
			Position: pos,
			Name:     fieldName(fieldNames, pos),
			Count:    count,
		})
	}

	for _, s := range res.Samples {
		r.Samples = append(r.Samples, SampleRow{
			Ordinal:   s.Ordinal,
			KeyValues: s.Diff.Key.Parts(),
			FieldName: fieldName(fieldNames, s.Diff.Position),
			Position:  s.Diff.Position,
			ValueA:    s.Diff.ValueA,
			ValueB:    s.Diff.ValueB,
		})
	}

	return r
}

// HasDifferences reports whether the comparison found any differences.
func (r *Report) HasDifferences() bool {
	return r.Summary.AOnly > 0 || r.Summary.BOnly > 0 || r.Summary.Mismatched > 0
}

func keyFieldNames(keyFields []int, fieldNames []string) []string {
	if len(keyFields) == 0 {
		// Without key fields the whole record is the key; every field
		// is a key column.
		return fieldNames
	}
	names := make([]string, 0, len(keyFields))
	for _, p := range keyFields {
		names = append(names, fieldName(fieldNames, p))
	}
	return names
}

func fieldName(fieldNames []string, position int) string {
	if position >= 1 && position <= len(fieldNames) {
		return fieldNames[position-1]
	}
	return fmt.Sprintf("Column %d", position)
}

func maxPosition(counts map[int]int) int {
	max := 0
	for pos := range counts {
		if pos > max {
			max = pos
		}
	}
	return max
}
