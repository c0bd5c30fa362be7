// Package recon implements the record reconciliation engine: set
// reconciliation of two keyed indexes, field-level differencing of common
// records, and aggregation of mismatch statistics.
package recon

import (
	"fmt"
	"time"

	"recdiff/pkg/record"
)

// FieldDiff is one mismatching field between two records sharing a key.
type FieldDiff struct {
	// Position is the 1-based field position that differed.
	Position int

	// ValueA and ValueB are the differing values from each side.
	ValueA string
	ValueB string

	// Key identifies the record pair.
	Key record.Key
}

// Sample is one recorded mismatch instance retained for the report.
type Sample struct {
	// Ordinal is the 1-based position of the record pair in the
	// common-key iteration.
	Ordinal int

	Diff FieldDiff
}

// SkipKind categorizes a per-record recoverable failure.
type SkipKind string

const (
	SkipKeyMismatch    SkipKind = "key_mismatch"
	SkipLengthMismatch SkipKind = "length_mismatch"
)

// Skip records one common-key record pair that could not be compared.
type Skip struct {
	Ordinal int
	Key     record.Key
	Kind    SkipKind
	Reason  string
}

// KeyMismatchError reports that two records handed to Diff do not share the
// configured key. With index-driven lookups this indicates caller misuse.
type KeyMismatchError struct {
	KeyA record.Key
	KeyB record.Key
}

func (e *KeyMismatchError) Error() string {
	return fmt.Sprintf("key mismatch: %q vs %q", string(e.KeyA), string(e.KeyB))
}

// LengthMismatchError reports that two records being compared without key
// fields have different arity.
type LengthMismatchError struct {
	LenA int
	LenB int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: %d fields vs %d fields", e.LenA, e.LenB)
}

// Result is the complete outcome of one reconciliation run.
type Result struct {
	// AOnly and BOnly hold the records whose keys appear in only one
	// file, in that file's insertion order.
	AOnly []record.Record
	BOnly []record.Record

	// RecordsA and RecordsB are the distinct key counts per index.
	RecordsA int
	RecordsB int

	// DuplicatesA and DuplicatesB count duplicate-key overwrites seen
	// while indexing each file.
	DuplicatesA int
	DuplicatesB int

	// Compared is the number of common keys.
	Compared int

	// Matched is the number of common-key record pairs with no diffs.
	Matched int

	// DiffCounts maps 1-based field position to the number of record
	// pairs where that field differed.
	DiffCounts map[int]int

	// Samples is the bounded list of recorded mismatch instances.
	Samples []Sample

	// Skipped lists record pairs that failed differencing.
	Skipped []Skip

	// Arity is the field count of the first retained record of fileA,
	// used for field-name fallback.
	Arity int

	// StartTime and EndTime bound the run.
	StartTime time.Time
	EndTime   time.Time
}

// Mismatched returns the number of compared record pairs with at least one
// diff or a per-record failure.
func (r *Result) Mismatched() int {
	return r.Compared - r.Matched
}

// HasDifferences reports whether the two files failed to reconcile exactly.
func (r *Result) HasDifferences() bool {
	return len(r.AOnly) > 0 || len(r.BOnly) > 0 || r.Mismatched() > 0
}
