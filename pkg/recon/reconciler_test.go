package recon

import (
	"reflect"
	"testing"

	"recdiff/pkg/record"
)

func indexOf(keys ...string) *record.Index {
	ix := record.NewIndex()
	for _, k := range keys {
		ix.Put(record.Key(k), record.Record{Fields: []string{k}})
	}
	return ix
}

func TestReconcile(t *testing.T) {
	a := indexOf("1", "2", "3")
	b := indexOf("2", "3", "4")

	p := Reconcile(a, b)

	if want := []record.Key{"1"}; !reflect.DeepEqual(p.AOnly, want) {
		t.Errorf("AOnly = %v, want %v", p.AOnly, want)
	}
	if want := []record.Key{"4"}; !reflect.DeepEqual(p.BOnly, want) {
		t.Errorf("BOnly = %v, want %v", p.BOnly, want)
	}
	if want := []record.Key{"2", "3"}; !reflect.DeepEqual(p.Common, want) {
		t.Errorf("Common = %v, want %v", p.Common, want)
	}
}

func TestReconcile_Disjoint(t *testing.T) {
	p := Reconcile(indexOf("1", "2"), indexOf("3"))

	if len(p.AOnly) != 2 || len(p.BOnly) != 1 || len(p.Common) != 0 {
		t.Errorf("partition = %d/%d/%d, want 2/1/0", len(p.AOnly), len(p.BOnly), len(p.Common))
	}
}

func TestReconcile_Identical(t *testing.T) {
	p := Reconcile(indexOf("1", "2"), indexOf("1", "2"))

	if len(p.AOnly) != 0 || len(p.BOnly) != 0 || len(p.Common) != 2 {
		t.Errorf("partition = %d/%d/%d, want 0/0/2", len(p.AOnly), len(p.BOnly), len(p.Common))
	}
}

func TestReconcile_Empty(t *testing.T) {
	p := Reconcile(record.NewIndex(), record.NewIndex())

	if len(p.AOnly) != 0 || len(p.BOnly) != 0 || len(p.Common) != 0 {
		t.Error("expected empty partition for empty indexes")
	}
}

// The three result sets must partition keys(A) ∪ keys(B) with no overlap.
func TestReconcile_PartitionProperty(t *testing.T) {
	a := indexOf("1", "2", "3", "5", "7")
	b := indexOf("2", "4", "5", "6", "7")

	p := Reconcile(a, b)

	seen := make(map[record.Key]int)
	for _, k := range p.AOnly {
		seen[k]++
	}
	for _, k := range p.BOnly {
		seen[k]++
	}
	for _, k := range p.Common {
		seen[k]++
	}

	union := make(map[record.Key]bool)
	for _, k := range a.Keys() {
		union[k] = true
	}
	for _, k := range b.Keys() {
		union[k] = true
	}

	if len(seen) != len(union) {
		t.Errorf("partition covers %d keys, union has %d", len(seen), len(union))
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("key %q appears in %d sets, want exactly 1", string(k), n)
		}
		if !union[k] {
			t.Errorf("key %q not in union", string(k))
		}
	}
}
