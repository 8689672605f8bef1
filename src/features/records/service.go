package records

import (
	"context"

	"dirwatch/src/watch"
)

// Service exposes the event record store to external collaborators: every
// qualifying firing leaves a globally addressable record here, discoverable
// by the deterministic naming convention.
type Service struct {
	registry watch.Registry
	archive  watch.Archive
}

// NewService creates a new records service. archive may be nil when the
// durable tier is disabled.
func NewService(registry watch.Registry, archive watch.Archive) *Service {
	return &Service{registry: registry, archive: archive}
}

// All returns every retained record in firing order.
func (s *Service) All() []watch.EventRecord {
	return s.registry.All()
}

// Get looks a record up by its exact identity.
func (s *Service) Get(identity string) (watch.EventRecord, bool) {
	return s.registry.Get(identity)
}

// Find returns records whose identity matches a glob pattern, e.g.
// "FileIOWatcherFordata*".
func (s *Service) Find(pattern string) ([]watch.EventRecord, error) {
	return s.registry.Find(pattern)
}

// Count reports how many records are retained in process.
func (s *Service) Count() int {
	return s.registry.Len()
}

// Archived returns the newest archived records, most recent first.
func (s *Service) Archived(ctx context.Context, limit int) ([]watch.EventRecord, error) {
	if s.archive == nil {
		return nil, nil
	}
	return s.archive.Recent(ctx, limit)
}

// ArchivedCount reports the durable record count across process restarts.
func (s *Service) ArchivedCount(ctx context.Context) (int, error) {
	if s.archive == nil {
		return 0, nil
	}
	return s.archive.Count(ctx)
}
