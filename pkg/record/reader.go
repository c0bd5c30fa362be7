package record

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Source yields records one at a time.
// Next returns io.EOF when the source is exhausted.
type Source interface {
	Next(ctx context.Context) (*Record, error)
	Close() error
}

// DelimitedSource reads records from a character-delimited file.
// Quoting follows encoding/csv semantics, matching what spreadsheet-style
// exports produce.
type DelimitedSource struct {
	path    string
	file    *os.File
	reader  *csv.Reader
	lineNum int
}

// OpenDelimited opens path as a delimited record source.
func OpenDelimited(path string, delimiter rune) (*DelimitedSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1 // arity mismatches are caught downstream
	r.LazyQuotes = true

	return &DelimitedSource{path: path, file: f, reader: r}, nil
}

// Next returns the next record, or io.EOF when the file is exhausted.
func (s *DelimitedSource) Next(ctx context.Context) (*Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	fields, err := s.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	s.lineNum++
	return &Record{Fields: fields, LineNum: s.lineNum, Source: s.path}, nil
}

// Close releases the underlying file.
func (s *DelimitedSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// FixedWidthSource reads records from a fixed-width file, slicing each line
// into one field per configured column width.
type FixedWidthSource struct {
	path    string
	widths  []int
	file    *os.File
	scanner *bufio.Scanner
	lineNum int
}

// OpenFixedWidth opens path as a fixed-width record source with the given
// column widths.
func OpenFixedWidth(path string, widths []int) (*FixedWidthSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	return &FixedWidthSource{path: path, widths: widths, file: f, scanner: sc}, nil
}

// Next returns the next record, or io.EOF when the file is exhausted.
func (s *FixedWidthSource) Next(ctx context.Context) (*Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", s.path, err)
		}
		return nil, io.EOF
	}

	s.lineNum++
	return &Record{
		Fields:  SliceWidths(s.scanner.Text(), s.widths),
		LineNum: s.lineNum,
		Source:  s.path,
	}, nil
}

// Close releases the underlying file.
func (s *FixedWidthSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// SliceWidths splits line into one field per width, consuming contiguous
// byte ranges in order. A line shorter than the declared widths yields
// truncated or empty trailing fields rather than an error.
func SliceWidths(line string, widths []int) []string {
	fields := make([]string, 0, len(widths))
	offset := 0
	for _, w := range widths {
		start, end := offset, offset+w
		if start > len(line) {
			start = len(line)
		}
		if end > len(line) {
			end = len(line)
		}
		fields = append(fields, line[start:end])
		offset += w
	}
	return fields
}
