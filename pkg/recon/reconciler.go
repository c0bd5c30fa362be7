package recon

import "recdiff/pkg/record"

// Partition is the disjoint split of two indexes' key sets.
type Partition struct {
	// AOnly holds keys present only in A, in A's insertion order.
	AOnly []record.Key

	// BOnly holds keys present only in B, in B's insertion order.
	BOnly []record.Key

	// Common holds keys present in both, in A's insertion order.
	// Consumers must not assume any relation to source-file order.
	Common []record.Key
}

// Reconcile computes the key partition of two indexes.
func Reconcile(a, b *record.Index) Partition {
	var p Partition

	for _, k := range a.Keys() {
		if b.Has(k) {
			p.Common = append(p.Common, k)
		} else {
			p.AOnly = append(p.AOnly, k)
		}
	}

	for _, k := range b.Keys() {
		if !a.Has(k) {
			p.BOnly = append(p.BOnly, k)
		}
	}

	return p
}
