// Package detector provides automatic record-layout detection for data
// files: likely field delimiters with confidence scores, and a fixed-width
// hint when every sampled line has the same byte length.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Candidate is a delimiter that matched with its confidence score.
type Candidate struct {
	Delimiter rune
	Name      string

	// FieldCount is the modal field count across matching lines.
	FieldCount int

	// Confidence is the fraction of sampled lines that split into the
	// modal field count (0.0 to 1.0).
	Confidence float64

	// MatchCount is the number of lines that split into the modal count.
	MatchCount int

	// SampleLine is an example line that matched.
	SampleLine string
}

// DetectionResult holds the result of analyzing a data file.
type DetectionResult struct {
	// Candidates lists delimiters that matched, sorted by confidence
	// descending.
	Candidates []Candidate

	// SampledLines is the number of non-empty lines examined.
	SampledLines int

	// UniformWidth is the shared byte length when every sampled line has
	// the same length (a fixed-width layout hint); zero otherwise.
	UniformWidth int
}

// Best returns the highest-confidence candidate, or nil when nothing
// matched.
func (r *DetectionResult) Best() *Candidate {
	if len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}

// Detector analyzes data files to identify their record layout.
type Detector struct {
	delimiters []Delimiter
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a Detector with the default delimiter candidates.
func New(opts ...Option) *Detector {
	d := &Detector{
		delimiters: DefaultDelimiters(),
		sampleSize: 100,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a data file and returns detected layouts.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of data lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	uniformWidth := -1
	var sampled []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sampled = append(sampled, line)
		switch {
		case uniformWidth == -1:
			uniformWidth = len(line)
		case uniformWidth != len(line):
			uniformWidth = 0
		}
	}
	result.SampledLines = len(sampled)
	if len(sampled) > 1 && uniformWidth > 0 {
		result.UniformWidth = uniformWidth
	}

	if len(sampled) == 0 {
		return result
	}

	for _, delim := range d.delimiters {
		counts := make(map[int]int) // field count -> lines
		var sample string
		for _, line := range sampled {
			n := strings.Count(line, string(delim.Rune)) + 1
			if n < 2 {
				continue
			}
			counts[n]++
			if sample == "" {
				sample = line
			}
		}

		// Modal field count decides; lines with a different count are
		// inconsistencies that lower confidence.
		modal, modalLines := 0, 0
		for n, c := range counts {
			if c > modalLines || (c == modalLines && n > modal) {
				modal, modalLines = n, c
			}
		}
		if modalLines == 0 {
			continue
		}

		result.Candidates = append(result.Candidates, Candidate{
			Delimiter:  delim.Rune,
			Name:       delim.Name,
			FieldCount: modal,
			Confidence: float64(modalLines) / float64(len(sampled)),
			MatchCount: modalLines,
			SampleLine: sample,
		})
	}

	sort.SliceStable(result.Candidates, func(i, j int) bool {
		return result.Candidates[i].Confidence > result.Candidates[j].Confidence
	})

	return result
}

func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for len(lines) < d.sampleSize && scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, nil
}
