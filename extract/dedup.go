package extract

// Deduplicator collapses repeated image primitives by content hash. The
// first occurrence of each distinct hash is kept; later ones are dropped
// silently (duplicate images are common in documents, e.g. headers and
// logos, and must not repeat in the output). Not safe for concurrent use;
// callers merge concurrent results through a single deduplicator afterward.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates an empty deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Admit reports whether hash is seen for the first time, recording it.
func (d *Deduplicator) Admit(hash string) bool {
	if _, ok := d.seen[hash]; ok {
		return false
	}
	d.seen[hash] = struct{}{}
	return true
}
