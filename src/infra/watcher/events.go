package watcher

import (
	"time"

	"dirwatch/src/watch"

	"github.com/fsnotify/fsnotify"
)

// Event is a single normalized delivery from the native notification layer.
type Event struct {
	Name      string // leaf name as reported by the OS
	Path      string // full path
	Trigger   watch.TriggerKind
	Timestamp time.Time
}

// triggerFor maps a native fsnotify op onto the realized trigger kind.
// Chmod is folded into "changed": the native layer cannot distinguish
// metadata-only modifications from content ones.
func triggerFor(op fsnotify.Op) (watch.TriggerKind, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return watch.TriggerCreated, true
	case op.Has(fsnotify.Write), op.Has(fsnotify.Chmod):
		return watch.TriggerChanged, true
	case op.Has(fsnotify.Remove):
		return watch.TriggerDeleted, true
	case op.Has(fsnotify.Rename):
		return watch.TriggerRenamed, true
	default:
		return "", false
	}
}
