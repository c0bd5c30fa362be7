package recon

// Aggregator accumulates per-field mismatch counts and a bounded sample of
// mismatch instances across the common-key comparison loop.
//
// A threshold > 0 caps the number of samples retained per field; counts are
// always exact. With no threshold every diff is sampled and sample memory
// grows with the mismatch count.
type Aggregator struct {
	threshold int
	counts    map[int]int
	samples   []Sample
	matched   int
}

// NewAggregator creates an aggregator. threshold <= 0 means unbounded
// sampling.
func NewAggregator(threshold int) *Aggregator {
	return &Aggregator{
		threshold: threshold,
		counts:    make(map[int]int),
	}
}

// Record consumes the diffs for one common-key record pair. An empty diff
// list counts the pair as matched.
func (g *Aggregator) Record(ordinal int, diffs []FieldDiff) {
	if len(diffs) == 0 {
		g.matched++
		return
	}
	for _, d := range diffs {
		g.counts[d.Position]++
		if g.threshold > 0 && g.counts[d.Position] > g.threshold {
			continue
		}
		g.samples = append(g.samples, Sample{Ordinal: ordinal, Diff: d})
	}
}

// Counts returns the per-field mismatch counts (1-based field position to
// record-pair count).
func (g *Aggregator) Counts() map[int]int {
	return g.counts
}

// Samples returns the retained mismatch samples in collection order.
func (g *Aggregator) Samples() []Sample {
	return g.samples
}

// Matched returns the number of record pairs with no diffs.
func (g *Aggregator) Matched() int {
	return g.matched
}
