package registry

import (
	"path"
	"sync"

	"dirwatch/src/watch"
)

// IdentityPrefix is the base naming convention for stored records: the
// prefix plus the watched directory's leaf name, suffixed with the firing
// ID when that base identity is already taken.
const IdentityPrefix = "FileIOWatcherFor"

// InMemoryRegistry is an in-memory implementation of the watch.Registry
// interface. Records accumulate for the life of the process unless a
// retention limit is set.
type InMemoryRegistry struct {
	mu      sync.Mutex
	records map[string]watch.EventRecord
	order   []string // identities in insertion order, for eviction and listing
	limit   int      // 0 means unbounded
}

// NewInMemoryRegistry creates a registry. limit caps retained records
// (oldest evicted first); 0 preserves the unbounded legacy behavior.
func NewInMemoryRegistry(limit int) *InMemoryRegistry {
	return &InMemoryRegistry{
		records: make(map[string]watch.EventRecord),
		limit:   limit,
	}
}

// Record stores the record under a collision-free identity and returns it.
// The existence check and the write happen under one lock so concurrent
// firings always land on distinct identities.
func (r *InMemoryRegistry) Record(directoryLeaf, firingID string, record watch.EventRecord) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity := IdentityPrefix + directoryLeaf
	if _, taken := r.records[identity]; taken {
		identity = identity + "_" + firingID
	}
	record.Identity = identity
	r.records[identity] = record
	r.order = append(r.order, identity)

	if r.limit > 0 && len(r.order) > r.limit {
		evict := r.order[0]
		r.order = r.order[1:]
		delete(r.records, evict)
	}
	return identity
}

// Get returns the record stored under the given identity.
func (r *InMemoryRegistry) Get(identity string) (watch.EventRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[identity]
	return record, ok
}

// All returns every retained record in insertion order.
func (r *InMemoryRegistry) All() []watch.EventRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]watch.EventRecord, 0, len(r.order))
	for _, identity := range r.order {
		if record, ok := r.records[identity]; ok {
			records = append(records, record)
		}
	}
	return records
}

// Find returns records whose identity matches the glob pattern.
func (r *InMemoryRegistry) Find(pattern string) ([]watch.EventRecord, error) {
	if _, err := path.Match(pattern, "probe"); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []watch.EventRecord
	for _, identity := range r.order {
		ok, _ := path.Match(pattern, identity)
		if !ok {
			continue
		}
		if record, found := r.records[identity]; found {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// Len reports how many records are retained.
func (r *InMemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
