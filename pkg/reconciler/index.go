package reconciler

import "github.com/SophieMSL/hubspot-monday-sync/pkg/records"

// Index maps identity key to the target-side record holding it. Lookup is
// exact string equality; keys are never normalized, so "Bug 1" and "bug 1"
// are distinct entities.
type Index map[string]records.Record

// BuildIndex builds the target index from an ordered snapshot. On duplicate
// keys the later record silently replaces the earlier one, mirroring the
// upstream API's own ordering; the snapshot is not re-sorted.
func BuildIndex(snapshot []records.Record) Index {
	idx := make(Index, len(snapshot))
	for _, rec := range snapshot {
		idx[rec.Key()] = rec
	}
	return idx
}

// Lookup returns the target record for a key and whether one exists.
func (idx Index) Lookup(key string) (records.Record, bool) {
	rec, ok := idx[key]
	return rec, ok
}

// Len returns the number of distinct keys in the index.
func (idx Index) Len() int {
	return len(idx)
}
