package recon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recdiff/pkg/config"
	"recdiff/pkg/record"
)

// ProgressFunc receives progress updates during a run. prefix names the
// phase, current/total give completion, suffix describes the current step.
type ProgressFunc func(prefix string, current, total int, suffix string)

// Engine runs the full reconciliation pipeline for one configuration:
// index both files, partition the key sets, diff the common records, and
// aggregate mismatch statistics.
type Engine struct {
	cfg      *config.Config
	log      *zap.Logger
	progress ProgressFunc
}

// Option configures engine behavior.
type Option func(*Engine)

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithProgress sets the progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.progress = fn
		}
	}
}

// New creates an engine for the given configuration. The configuration must
// already be validated.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if _, err := cfg.Mode(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		log:      zap.NewNop(),
		progress: func(string, int, int, string) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// setup-phase step count, matching the historical progress display.
const setupSteps = 6

// Run executes the reconciliation and returns the accumulated result.
// Per-record differencing failures are recorded and skipped; every other
// error is fatal.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		DiffCounts: make(map[int]int),
		StartTime:  time.Now(),
	}

	e.progress("Initial setup", 1, setupSteps, "scanning fileA")
	indexA, err := e.buildIndex(ctx, e.cfg.FileA, e.cfg.DelimiterA())
	if err != nil {
		return nil, fmt.Errorf("indexing fileA: %w", err)
	}

	e.progress("Initial setup", 2, setupSteps, "scanning fileB")
	indexB, err := e.buildIndex(ctx, e.cfg.FileB, e.cfg.DelimiterB())
	if err != nil {
		return nil, fmt.Errorf("indexing fileB: %w", err)
	}

	e.progress("Initial setup", 3, setupSteps, "finding common keys")
	part := Reconcile(indexA, indexB)

	e.progress("Initial setup", 4, setupSteps, "finding fileA-only records")
	for _, k := range part.AOnly {
		rec, _ := indexA.Get(k)
		res.AOnly = append(res.AOnly, rec)
	}

	e.progress("Initial setup", 5, setupSteps, "finding fileB-only records")
	for _, k := range part.BOnly {
		rec, _ := indexB.Get(k)
		res.BOnly = append(res.BOnly, rec)
	}
	e.progress("Initial setup", 6, setupSteps, "initial setup complete")

	res.RecordsA = indexA.Len()
	res.RecordsB = indexB.Len()
	res.DuplicatesA = indexA.Duplicates()
	res.DuplicatesB = indexB.Duplicates()
	res.Compared = len(part.Common)

	if keys := indexA.Keys(); len(keys) > 0 {
		first, _ := indexA.Get(keys[0])
		res.Arity = len(first.Fields)
	}

	e.log.Info("initial setup complete",
		zap.Int("recordsA", res.RecordsA),
		zap.Int("recordsB", res.RecordsB),
		zap.Int("aOnly", len(res.AOnly)),
		zap.Int("bOnly", len(res.BOnly)),
		zap.Int("common", res.Compared))

	agg := NewAggregator(e.cfg.SampleThreshold)
	if err := e.compare(ctx, indexA, indexB, part.Common, agg, res); err != nil {
		return nil, err
	}

	res.Matched = agg.Matched()
	res.DiffCounts = agg.Counts()
	res.Samples = agg.Samples()
	res.EndTime = time.Now()

	e.log.Info("comparison complete",
		zap.Int("compared", res.Compared),
		zap.Int("matched", res.Matched),
		zap.Int("mismatched", res.Mismatched()),
		zap.Int("skipped", len(res.Skipped)),
		zap.Duration("elapsed", res.EndTime.Sub(res.StartTime)))

	return res, nil
}

func (e *Engine) buildIndex(ctx context.Context, path string, delimiter rune) (*record.Index, error) {
	src, err := e.openSource(path, delimiter)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return record.BuildIndex(ctx, src, e.cfg.KeyFields, e.cfg.SkipRecords)
}

func (e *Engine) openSource(path string, delimiter rune) (record.Source, error) {
	mode, err := e.cfg.Mode()
	if err != nil {
		return nil, err
	}
	if mode == config.ModeFixedWidth {
		return record.OpenFixedWidth(path, e.cfg.ColumnWidths)
	}
	return record.OpenDelimited(path, delimiter)
}

// compare runs the common-key loop. Differencing failures are caught here
// and never escape: the pair is recorded as skipped and the loop continues.
func (e *Engine) compare(ctx context.Context, indexA, indexB *record.Index, common []record.Key, agg *Aggregator, res *Result) error {
	total := len(common)
	step := total / 100
	if step < 1 {
		step = 1
	}

	for i, key := range common {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ordinal := i + 1
		if ordinal%step == 0 {
			e.progress("Comparing", ordinal, total, fmt.Sprintf("%d", ordinal))
		}

		recA, _ := indexA.Get(key)
		recB, _ := indexB.Get(key)

		diffs, err := Diff(recA, recB, e.cfg.KeyFields, e.cfg.IgnoreFields)
		if err != nil {
			skip := Skip{Ordinal: ordinal, Key: key, Reason: err.Error()}
			var keyErr *KeyMismatchError
			var lenErr *LengthMismatchError
			switch {
			case errors.As(err, &keyErr):
				skip.Kind = SkipKeyMismatch
			case errors.As(err, &lenErr):
				skip.Kind = SkipLengthMismatch
			default:
				return fmt.Errorf("comparing key %q: %w", string(key), err)
			}
			res.Skipped = append(res.Skipped, skip)
			e.log.Warn("record skipped",
				zap.Int("ordinal", ordinal),
				zap.String("key", string(key)),
				zap.String("kind", string(skip.Kind)))
			continue
		}

		agg.Record(ordinal, diffs)
	}

	if total > 0 {
		e.progress("Comparing", total, total, "done")
	}
	return nil
}
