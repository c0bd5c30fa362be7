// Package record provides record sources and keyed indexing for the
// reconciliation pipeline.
package record

import "strings"

// Key parts are joined with the ASCII unit separator. Occurrences of the
// separator or escape byte inside a field value are escaped so distinct
// field tuples never map to the same Key.
const (
	keySep byte = 0x1f
	keyEsc byte = 0x1e
)

// Record is one logical row of field values from a file.
type Record struct {
	// Fields holds the field values in file order.
	Fields []string

	// LineNum is the 1-based line number in the source file.
	LineNum int

	// Source is the file path this record came from.
	Source string
}

// Key is the identity of a record within a file: the values of the key
// fields, joined in key-field order.
type Key string

// MakeKey extracts a record's key at the given 1-based field positions.
// With no positions configured, the whole record is its own key.
// Returns ok=false if any position is beyond the record's arity.
func MakeKey(fields []string, positions []int) (Key, bool) {
	if len(positions) == 0 {
		return joinKey(fields), true
	}
	parts := make([]string, 0, len(positions))
	for _, p := range positions {
		if p < 1 || p > len(fields) {
			return "", false
		}
		parts = append(parts, fields[p-1])
	}
	return joinKey(parts), true
}

func joinKey(parts []string) Key {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte(keySep)
		}
		for j := 0; j < len(part); j++ {
			if part[j] == keySep || part[j] == keyEsc {
				b.WriteByte(keyEsc)
			}
			b.WriteByte(part[j])
		}
	}
	return Key(b.String())
}

// Parts returns the key's component field values.
func (k Key) Parts() []string {
	s := string(k)
	var parts []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case keyEsc:
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			}
		case keySep:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(s[i])
		}
	}
	return append(parts, b.String())
}
