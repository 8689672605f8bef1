package watching

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"dirwatch/src/features/metrics"
	"dirwatch/src/infra/watcher"
	"dirwatch/src/watch"

	"github.com/google/uuid"
)

// Binding is the native watcher facility the service arms registrations on.
type Binding interface {
	Subscribe(opts watcher.Options, deliver func(watcher.Event), onError func(error)) (*watcher.Subscription, error)
}

// Service is the domain service for the watching feature. It validates and
// arms registrations, normalizes native deliveries into firings, records
// them, and invokes the user action.
type Service struct {
	binding  Binding
	registry watch.Registry
	archive  watch.Archive
	notifier watch.Notifier
	metrics  *metrics.Service

	mu   sync.RWMutex
	regs map[string]*Registration
	errs chan error
}

// NewService creates a new watching service. archive and notifier may be
// nil when the durable tier or telegram actions are disabled.
func NewService(binding Binding, registry watch.Registry, archive watch.Archive, notifier watch.Notifier, metricsService *metrics.Service) *Service {
	return &Service{
		binding:  binding,
		registry: registry,
		archive:  archive,
		notifier: notifier,
		metrics:  metricsService,
		regs:     make(map[string]*Registration),
		errs:     make(chan error, 16),
	}
}

// Register validates the configuration and arms the watch. It returns once
// the native subscription is in place; deliveries run asynchronously. On
// any configuration error nothing is armed and no state is left behind.
func (s *Service) Register(cfg Config) (*Registration, error) {
	if cfg.Path == "" {
		return nil, ErrPathRequired
	}
	if !cfg.Trigger.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTrigger, cfg.Trigger)
	}

	rule, err := newRule(cfg)
	if err != nil {
		return nil, err
	}

	invoke, err := normalizeAction(cfg.Action, s.notifier)
	if err != nil {
		return nil, err
	}

	reg := &Registration{
		ID:        uuid.New().String(),
		Config:    cfg,
		CreatedAt: time.Now(),
		rule:      rule,
		invoke:    invoke,
	}

	// Glob rules are enforced at the native layer; regex rules get a
	// match-everything native filter and are applied post-hoc here.
	opts := watcher.Options{
		Path:      cfg.Path,
		Recursive: cfg.Recursive,
	}
	if !rule.isRegex() {
		opts.Glob = rule.pattern
	}

	handle, err := s.binding.Subscribe(opts,
		func(event watcher.Event) { s.dispatch(reg, event) },
		func(err error) { s.handleNativeError(reg, err) },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to arm watch on %s: %w", cfg.Path, err)
	}
	reg.handle = handle

	s.mu.Lock()
	s.regs[reg.ID] = reg
	s.mu.Unlock()

	slog.Info("Watch registered", "id", reg.ID, "path", cfg.Path, "trigger", cfg.Trigger, "rule", rule.pattern, "recursive", cfg.Recursive)
	return reg, nil
}

// Unregister tears down a watch and its native subscription.
func (s *Service) Unregister(id string) error {
	s.mu.Lock()
	reg, ok := s.regs[id]
	delete(s.regs, id)
	s.mu.Unlock()

	if !ok {
		return ErrWatchNotFound
	}
	slog.Info("Watch unregistered", "id", id, "path", reg.Config.Path)
	return reg.handle.Close()
}

// Get returns a registration by ID.
func (s *Service) Get(id string) (*Registration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.regs[id]
	return reg, ok
}

// Registrations returns all armed watches.
func (s *Service) Registrations() []*Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	regs := make([]*Registration, 0, len(s.regs))
	for _, reg := range s.regs {
		regs = append(regs, reg)
	}
	return regs
}

// Errors exposes action and native-layer errors. The core neither retries
// nor swallows them; the host decides what to do.
func (s *Service) Errors() <-chan error {
	return s.errs
}

// Close unregisters every watch.
func (s *Service) Close() error {
	s.mu.Lock()
	regs := s.regs
	s.regs = make(map[string]*Registration)
	s.mu.Unlock()

	var firstErr error
	for _, reg := range regs {
		if err := reg.handle.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// dispatch is the event normalizer: it runs on the binding's dispatch
// goroutine for every native delivery on an armed watch.
func (s *Service) dispatch(reg *Registration, event watcher.Event) {
	s.metrics.Deliveries.Inc()

	if event.Trigger != reg.Config.Trigger {
		return
	}

	// Glob rules were filtered at the native layer already; only regex
	// rules are applied here. A non-match is a silent no-op: no record,
	// no action.
	if reg.rule.isRegex() && !reg.rule.matches(event.Name) {
		s.metrics.Suppressed.Inc()
		return
	}

	s.fire(reg, event.Trigger, event.Timestamp, []string{event.Name}, []string{event.Path})
}

// handleNativeError forwards native-layer errors to the host and, for
// watches triggering on errors, fires them as qualifying events.
func (s *Service) handleNativeError(reg *Registration, err error) {
	s.metrics.NativeErrors.Inc()
	s.reportError(fmt.Errorf("native watcher error on %s: %w", reg.Config.Path, err))

	if reg.Config.Trigger == watch.TriggerError {
		s.fire(reg, watch.TriggerError, time.Now(), nil, nil)
	}
}

// fire records one qualifying occurrence and invokes the action exactly
// once, synchronously on the notification-handling path.
func (s *Service) fire(reg *Registration, trigger watch.TriggerKind, timestamp time.Time, files, paths []string) {
	firingID := uuid.New().String()
	record := watch.EventRecord{
		WatchID:      reg.ID,
		FiringID:     firingID,
		Trigger:      trigger,
		Timestamp:    timestamp,
		MatchedFiles: files,
		MatchedPaths: paths,
	}

	identity := s.registry.Record(filepath.Base(reg.Config.Path), firingID, record)
	record.Identity = identity
	s.metrics.RecordsStored.Inc()
	s.metrics.Firings.WithLabelValues(string(trigger)).Inc()

	if s.archive != nil {
		if err := s.archive.Append(context.Background(), record); err != nil {
			s.reportError(fmt.Errorf("failed to archive record %s: %w", identity, err))
		}
	}

	firing := watch.Firing{
		WatchID:      reg.ID,
		FiringID:     firingID,
		Directory:    reg.Config.Path,
		Recursive:    reg.Config.Recursive,
		Trigger:      trigger,
		Timestamp:    timestamp,
		MatchedFiles: files,
		MatchedPaths: paths,
		RulePattern:  reg.rule.pattern,
		RuleIsRegex:  reg.rule.isRegex(),
		RecordName:   identity,
	}

	slog.Debug("Watch fired", "id", reg.ID, "record", identity, "trigger", trigger, "files", files)
	if err := reg.invoke(context.Background(), firing); err != nil {
		s.metrics.ActionFailures.Inc()
		s.reportError(fmt.Errorf("action failed for watch %s (record %s): %w", reg.ID, identity, err))
	}
}

func (s *Service) reportError(err error) {
	select {
	case s.errs <- err:
	default:
		slog.Warn("Error channel full, dropping error", "error", err)
	}
}
