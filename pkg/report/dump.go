package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"recdiff/pkg/record"
)

// WriteDump writes exclusive records one per line, fields concatenated
// without separators. The separator-free layout matches the tool's
// historical dump format; it is a documented readability limitation, not a
// defect to fix here.
func WriteDump(w io.Writer, records []record.Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := bw.WriteString(strings.Join(rec.Fields, "") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteDumpFile writes exclusive records to path. No file is created when
// records is empty.
func WriteDumpFile(path string, records []record.Record) error {
	if len(records) == 0 {
		return nil
	}

	f, err := os.Create(path) // #nosec G304 -- user-provided dump path is expected
	if err != nil {
		return fmt.Errorf("creating dump file: %w", err)
	}

	if err := WriteDump(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing dump file %s: %w", path, err)
	}
	return f.Close()
}
