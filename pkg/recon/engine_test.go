package recon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"recdiff/pkg/config"
)

func writeInput(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestEngine_DelimitedEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:          writeInput(t, dir, "a.csv", "1,a,x", "2,b,y"),
		FileB:          writeInput(t, dir, "b.csv", "1,a,z", "3,c,w"),
		ReportFile:     filepath.Join(dir, "report.csv"),
		FileADelimiter: ",",
		FileBDelimiter: ",",
		KeyFields:      []int{1},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(res.AOnly) != 1 || res.AOnly[0].Fields[0] != "2" {
		t.Errorf("AOnly = %v, want record with key 2", res.AOnly)
	}
	if len(res.BOnly) != 1 || res.BOnly[0].Fields[0] != "3" {
		t.Errorf("BOnly = %v, want record with key 3", res.BOnly)
	}
	if res.Compared != 1 {
		t.Errorf("Compared = %d, want 1", res.Compared)
	}
	if res.Matched != 0 {
		t.Errorf("Matched = %d, want 0", res.Matched)
	}

	if len(res.Samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(res.Samples))
	}
	d := res.Samples[0].Diff
	if d.Position != 3 || d.ValueA != "x" || d.ValueB != "z" {
		t.Errorf("diff = %+v, want position 3 x vs z", d)
	}
	if res.DiffCounts[3] != 1 {
		t.Errorf("DiffCounts[3] = %d, want 1", res.DiffCounts[3])
	}
}

func TestEngine_FixedWidthEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:        writeInput(t, dir, "a.dat", "1ax"),
		FileB:        writeInput(t, dir, "b.dat", "1az"),
		ReportFile:   filepath.Join(dir, "report.csv"),
		ColumnWidths: []int{1, 1, 1},
		KeyFields:    []int{1},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Compared != 1 {
		t.Fatalf("Compared = %d, want 1", res.Compared)
	}
	if len(res.Samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(res.Samples))
	}
	// Position 2 is equal (a vs a); only position 3 differs.
	d := res.Samples[0].Diff
	if d.Position != 3 || d.ValueA != "x" || d.ValueB != "z" {
		t.Errorf("diff = %+v, want position 3 x vs z", d)
	}
}

func TestEngine_SkipRecords(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:          writeInput(t, dir, "a.csv", "id,val", "1,x"),
		FileB:          writeInput(t, dir, "b.csv", "id,val", "1,x"),
		ReportFile:     filepath.Join(dir, "report.csv"),
		FileADelimiter: ",",
		FileBDelimiter: ",",
		KeyFields:      []int{1},
		SkipRecords:    1,
	}

	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.RecordsA != 1 || res.RecordsB != 1 {
		t.Errorf("records = %d/%d, want 1/1 after header skip", res.RecordsA, res.RecordsB)
	}
	if res.Matched != 1 {
		t.Errorf("Matched = %d, want 1", res.Matched)
	}
	if res.HasDifferences() {
		t.Error("HasDifferences() = true for identical data")
	}
}

func TestEngine_IgnoreFields(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:          writeInput(t, dir, "a.csv", "1,a,2024-01-01"),
		FileB:          writeInput(t, dir, "b.csv", "1,a,2024-02-02"),
		ReportFile:     filepath.Join(dir, "report.csv"),
		FileADelimiter: ",",
		FileBDelimiter: ",",
		KeyFields:      []int{1},
		IgnoreFields:   []int{3},
	}

	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Matched != 1 {
		t.Errorf("Matched = %d, want 1 with timestamp field ignored", res.Matched)
	}
}

func TestEngine_WholeRecordKeys(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:          writeInput(t, dir, "a.csv", "1,a", "2,b"),
		FileB:          writeInput(t, dir, "b.csv", "1,a,extra", "2,b"),
		ReportFile:     filepath.Join(dir, "report.csv"),
		FileADelimiter: ",",
		FileBDelimiter: ",",
	}

	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Without key fields the whole record is the key: "1,a" and
	// "1,a,extra" are different keys, so both land in the exclusive sets.
	if len(res.AOnly) != 1 || len(res.BOnly) != 1 {
		t.Errorf("exclusive = %d/%d, want 1/1", len(res.AOnly), len(res.BOnly))
	}
	if res.Compared != 1 || res.Matched != 1 {
		t.Errorf("compared/matched = %d/%d, want 1/1", res.Compared, res.Matched)
	}
}

func TestEngine_KeyFieldOutOfRangeIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:          writeInput(t, dir, "a.csv", "1,a"),
		FileB:          writeInput(t, dir, "b.csv", "1,a"),
		ReportFile:     filepath.Join(dir, "report.csv"),
		FileADelimiter: ",",
		FileBDelimiter: ",",
		KeyFields:      []int{9},
	}

	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := engine.Run(context.Background()); err == nil {
		t.Fatal("Run() expected fatal error for out-of-range key field")
	}
}

func TestEngine_MissingInputIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:          filepath.Join(dir, "missing.csv"),
		FileB:          writeInput(t, dir, "b.csv", "1,a"),
		ReportFile:     filepath.Join(dir, "report.csv"),
		FileADelimiter: ",",
		FileBDelimiter: ",",
		KeyFields:      []int{1},
	}

	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := engine.Run(context.Background()); err == nil {
		t.Fatal("Run() expected error for missing input file")
	}
}

func TestEngine_NoModeFailsFast(t *testing.T) {
	cfg := &config.Config{
		FileA:      "a",
		FileB:      "b",
		ReportFile: "r",
	}
	if _, err := New(cfg); err == nil {
		t.Fatal("New() expected error without delimiters or column widths")
	}
}

func TestEngine_ProgressCallback(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:          writeInput(t, dir, "a.csv", "1,a", "2,b"),
		FileB:          writeInput(t, dir, "b.csv", "1,a", "2,b"),
		ReportFile:     filepath.Join(dir, "report.csv"),
		FileADelimiter: ",",
		FileBDelimiter: ",",
		KeyFields:      []int{1},
	}

	var phases []string
	engine, err := New(cfg, WithProgress(func(prefix string, current, total int, suffix string) {
		phases = append(phases, prefix)
	}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(phases) == 0 {
		t.Fatal("progress callback never invoked")
	}
	if phases[0] != "Initial setup" {
		t.Errorf("first phase = %q, want Initial setup", phases[0])
	}
}

func TestResult_Mismatched(t *testing.T) {
	res := &Result{Compared: 10, Matched: 7}
	if res.Mismatched() != 3 {
		t.Errorf("Mismatched() = %d, want 3", res.Mismatched())
	}
}

func TestEngine_DuplicateKeysCounted(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		FileA:          writeInput(t, dir, "a.csv", "1,a", "1,b"),
		FileB:          writeInput(t, dir, "b.csv", "1,b"),
		ReportFile:     filepath.Join(dir, "report.csv"),
		FileADelimiter: ",",
		FileBDelimiter: ",",
		KeyFields:      []int{1},
	}

	engine, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.DuplicatesA != 1 {
		t.Errorf("DuplicatesA = %d, want 1", res.DuplicatesA)
	}
	// Last record wins: "1,b" matches fileB exactly.
	if res.Matched != 1 {
		t.Errorf("Matched = %d, want 1", res.Matched)
	}
}
