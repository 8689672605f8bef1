package watcher

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"dirwatch/src/watch"

	"github.com/fsnotify/fsnotify"
)

var (
	ErrBindingClosed = errors.New("watcher binding is closed")
	ErrBadGlob       = errors.New("invalid glob pattern")
)

// Options configures a single subscription on the binding.
type Options struct {
	Path      string
	Recursive bool
	// Glob is the native-layer filter: only leaf names matching it are
	// delivered. Empty means deliver everything (regex rules filter
	// upstream). Single pattern, * and ? wildcards, no alternation.
	Glob string
}

// Binding wraps one fsnotify watcher and fans its deliveries out to
// subscriptions. Deliveries run on the binding's dispatch goroutine,
// asynchronously relative to the Subscribe call.
type Binding struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	subs     map[uint64]*subscription
	dirRefs  map[string]int // watched directory -> covering subscription count
	nextID   uint64
	stopChan chan struct{}
	closed   bool
}

type subscription struct {
	id        uint64
	root      string
	recursive bool
	glob      string
	deliver   func(Event)
	onError   func(error)
	dirs      map[string]struct{} // directories this subscription holds a ref on
}

// Subscription is the caller's handle on an armed watch.
type Subscription struct {
	binding *Binding
	id      uint64
	once    sync.Once
}

// New creates a binding over the operating system's notification facility.
func New() (*Binding, error) {
	native, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	binding := &Binding{
		watcher:  native,
		subs:     make(map[uint64]*subscription),
		dirRefs:  make(map[string]int),
		stopChan: make(chan struct{}),
	}
	go binding.run()
	return binding, nil
}

// Subscribe arms a watch on a directory and returns once the native watches
// are in place. deliver and onError run outside the caller's control flow.
func (b *Binding) Subscribe(opts Options, deliver func(Event), onError func(error)) (*Subscription, error) {
	if opts.Glob != "" {
		if _, err := path.Match(opts.Glob, "probe"); err != nil {
			return nil, ErrBadGlob
		}
	}

	root := filepath.Clean(opts.Path)
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("watch path is not a directory")
	}

	dirs := []string{root}
	if opts.Recursive {
		subdirs, err := collectSubdirs(root)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, subdirs...)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBindingClosed
	}
	b.nextID++
	sub := &subscription{
		id:        b.nextID,
		root:      root,
		recursive: opts.Recursive,
		glob:      opts.Glob,
		deliver:   deliver,
		onError:   onError,
		dirs:      make(map[string]struct{}, len(dirs)),
	}
	b.subs[sub.id] = sub
	b.mu.Unlock()

	for _, dir := range dirs {
		if err := b.acquireDir(sub, dir); err != nil {
			b.teardown(sub, false)
			return nil, err
		}
	}

	slog.Debug("Watch armed", "path", root, "recursive", opts.Recursive, "glob", opts.Glob)
	return &Subscription{binding: b, id: sub.id}, nil
}

// Close releases the subscription's native watches and delivers a final
// disposed event.
func (s *Subscription) Close() error {
	if s == nil || s.binding == nil {
		return nil
	}
	s.once.Do(func() {
		s.binding.mu.Lock()
		sub := s.binding.subs[s.id]
		s.binding.mu.Unlock()
		if sub != nil {
			s.binding.teardown(sub, true)
		}
	})
	return nil
}

// Close shuts the binding down, disposing every remaining subscription.
func (b *Binding) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.subs = make(map[uint64]*subscription)
	b.mu.Unlock()

	close(b.stopChan)
	for _, sub := range subs {
		sub.dispose()
	}
	return b.watcher.Close()
}

func (b *Binding) run() {
	for {
		select {
		case event, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			b.handleEvent(event)
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			b.handleError(err)
		case <-b.stopChan:
			return
		}
	}
}

func (b *Binding) handleEvent(event fsnotify.Event) {
	trigger, ok := triggerFor(event.Op)
	if !ok {
		return
	}

	full := filepath.Clean(event.Name)
	dir := filepath.Dir(full)
	leaf := filepath.Base(full)
	now := time.Now()

	b.mu.Lock()
	matched := make([]*subscription, 0, 2)
	for _, sub := range b.subs {
		if !sub.covers(dir) {
			continue
		}
		if sub.glob != "" {
			if ok, _ := path.Match(sub.glob, leaf); !ok {
				continue
			}
		}
		matched = append(matched, sub)
	}
	b.mu.Unlock()

	// A directory created under a recursive root widens the watch set.
	if trigger == watch.TriggerCreated {
		b.coverNewDir(full, dir)
	}

	for _, sub := range matched {
		sub.deliver(Event{
			Name:      leaf,
			Path:      full,
			Trigger:   trigger,
			Timestamp: now,
		})
	}
}

func (b *Binding) handleError(err error) {
	b.mu.Lock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	slog.Error("Native watcher error", "error", err)
	for _, sub := range subs {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

// coverNewDir adds a native watch for a freshly created directory when a
// recursive subscription covers its parent.
func (b *Binding) coverNewDir(full, parent string) {
	info, err := os.Stat(full)
	if err != nil || !info.IsDir() {
		return
	}

	b.mu.Lock()
	covering := make([]*subscription, 0, 1)
	for _, sub := range b.subs {
		if sub.recursive && sub.covers(parent) {
			covering = append(covering, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range covering {
		if err := b.acquireDir(sub, full); err != nil {
			slog.Warn("Failed to extend recursive watch", "path", full, "error", err)
		}
	}
}

func (b *Binding) acquireDir(sub *subscription, dir string) error {
	b.mu.Lock()
	if _, held := sub.dirs[dir]; held {
		b.mu.Unlock()
		return nil
	}
	sub.dirs[dir] = struct{}{}
	b.dirRefs[dir]++
	first := b.dirRefs[dir] == 1
	b.mu.Unlock()

	if !first {
		return nil
	}
	if err := b.watcher.Add(dir); err != nil {
		b.mu.Lock()
		delete(sub.dirs, dir)
		b.dirRefs[dir]--
		if b.dirRefs[dir] <= 0 {
			delete(b.dirRefs, dir)
		}
		b.mu.Unlock()
		return err
	}
	return nil
}

func (b *Binding) teardown(sub *subscription, dispose bool) {
	b.mu.Lock()
	delete(b.subs, sub.id)
	release := make([]string, 0, len(sub.dirs))
	for dir := range sub.dirs {
		b.dirRefs[dir]--
		if b.dirRefs[dir] <= 0 {
			delete(b.dirRefs, dir)
			release = append(release, dir)
		}
	}
	sub.dirs = make(map[string]struct{})
	closed := b.closed
	b.mu.Unlock()

	if !closed {
		for _, dir := range release {
			if err := b.watcher.Remove(dir); err != nil {
				slog.Debug("Watch remove failed", "path", dir, "error", err)
			}
		}
	}
	if dispose {
		sub.dispose()
	}
}

// dispose delivers the terminal event for a subscription.
func (s *subscription) dispose() {
	if s.deliver == nil {
		return
	}
	s.deliver(Event{
		Name:      filepath.Base(s.root),
		Path:      s.root,
		Trigger:   watch.TriggerDisposed,
		Timestamp: time.Now(),
	})
}

func (s *subscription) covers(dir string) bool {
	if dir == s.root {
		return true
	}
	return s.recursive && isWithin(s.root, dir)
}

func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

func collectSubdirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() || p == root {
			return nil
		}
		dirs = append(dirs, p)
		return nil
	})
	return dirs, err
}
