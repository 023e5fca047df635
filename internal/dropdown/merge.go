package dropdown

import "github.com/dsjohal14/peoplepicker/internal/scope/record"

// Merge appends the incoming records whose keys are not yet present.
// Existing records win and keep their order. Every incoming record is compared
// against the whole result, so the cost is O(len(existing) * len(incoming));
// pages are bounded by PageSize.
func Merge(existing, incoming []record.Record, key record.KeyFunc) []record.Record {
	out := make([]record.Record, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	for _, rec := range incoming {
		k := key(rec)
		dup := false
		for j := range out {
			if key(out[j]) == k {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, rec)
		}
	}
	return out
}
