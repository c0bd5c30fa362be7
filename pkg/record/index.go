package record

import (
	"context"
	"fmt"
	"io"
)

// Index is an insertion-ordered mapping from Key to Record built from one
// file. Duplicate keys overwrite the stored record but keep the first
// insertion position (last-write-wins); the overwrite count is retained for
// reporting.
type Index struct {
	keys       []Key
	records    map[Key]Record
	duplicates int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{records: make(map[Key]Record)}
}

// BuildIndex consumes a record source and returns a keyed index.
// Records at 0-based positions below skip are discarded (headers).
// A key-field position beyond a record's arity is a fatal configuration
// error and aborts the build.
func BuildIndex(ctx context.Context, src Source, keyFields []int, skip int) (*Index, error) {
	ix := NewIndex()
	pos := 0

	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			return ix, nil
		}
		if err != nil {
			return nil, err
		}

		if pos < skip {
			pos++
			continue
		}
		pos++

		key, ok := MakeKey(rec.Fields, keyFields)
		if !ok {
			return nil, fmt.Errorf("%s line %d: key field position out of range for record with %d fields",
				rec.Source, rec.LineNum, len(rec.Fields))
		}
		ix.Put(key, *rec)
	}
}

// Put inserts a record under key, overwriting any prior entry.
func (ix *Index) Put(key Key, rec Record) {
	if _, exists := ix.records[key]; exists {
		ix.duplicates++
	} else {
		ix.keys = append(ix.keys, key)
	}
	ix.records[key] = rec
}

// Get returns the record stored under key.
func (ix *Index) Get(key Key) (Record, bool) {
	rec, ok := ix.records[key]
	return rec, ok
}

// Has reports whether key is present.
func (ix *Index) Has(key Key) bool {
	_, ok := ix.records[key]
	return ok
}

// Keys returns the keys in insertion order. The returned slice is owned by
// the index and must not be mutated.
func (ix *Index) Keys() []Key {
	return ix.keys
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.keys)
}

// Duplicates returns the number of records that overwrote an earlier entry
// under the same key.
func (ix *Index) Duplicates() int {
	return ix.duplicates
}
