package recon

import "recdiff/pkg/record"

// Diff compares two records already known to share a key and returns the
// mismatching field positions with both values.
//
// With key fields configured, each record's key is re-derived and required
// to match (returns *KeyMismatchError otherwise). Without key fields the
// records must have equal arity (returns *LengthMismatchError otherwise).
// Fields at 1-based positions in ignoreFields are excluded from the result.
func Diff(a, b record.Record, keyFields, ignoreFields []int) ([]FieldDiff, error) {
	var key record.Key

	if len(keyFields) > 0 {
		keyA, okA := record.MakeKey(a.Fields, keyFields)
		keyB, okB := record.MakeKey(b.Fields, keyFields)
		if !okA || !okB || keyA != keyB {
			return nil, &KeyMismatchError{KeyA: keyA, KeyB: keyB}
		}
		key = keyA
	} else {
		if len(a.Fields) != len(b.Fields) {
			return nil, &LengthMismatchError{LenA: len(a.Fields), LenB: len(b.Fields)}
		}
		key, _ = record.MakeKey(a.Fields, nil)
	}

	ignored := make(map[int]bool, len(ignoreFields))
	for _, p := range ignoreFields {
		ignored[p] = true
	}

	n := len(a.Fields)
	if len(b.Fields) < n {
		n = len(b.Fields)
	}

	var diffs []FieldDiff
	for i := 0; i < n; i++ {
		if a.Fields[i] == b.Fields[i] || ignored[i+1] {
			continue
		}
		diffs = append(diffs, FieldDiff{
			Position: i + 1,
			ValueA:   a.Fields[i],
			ValueB:   b.Fields[i],
			Key:      key,
		})
	}

	return diffs, nil
}
