package watch

import (
	"context"
	"time"
)

// TriggerKind is the category of filesystem change a watch reacts to.
type TriggerKind string

const (
	TriggerCreated  TriggerKind = "created"
	TriggerChanged  TriggerKind = "changed"
	TriggerDeleted  TriggerKind = "deleted"
	TriggerRenamed  TriggerKind = "renamed"
	TriggerDisposed TriggerKind = "disposed"
	TriggerError    TriggerKind = "error"
)

// TriggerKinds lists every valid trigger kind.
var TriggerKinds = []TriggerKind{
	TriggerCreated,
	TriggerChanged,
	TriggerDeleted,
	TriggerRenamed,
	TriggerDisposed,
	TriggerError,
}

// Valid reports whether the trigger kind is one of the known values.
func (k TriggerKind) Valid() bool {
	for _, kind := range TriggerKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Firing is the normalized context of one qualifying notification. It is
// handed to the action and folded into the persisted EventRecord.
type Firing struct {
	WatchID      string
	FiringID     string
	Directory    string
	Recursive    bool
	Trigger      TriggerKind
	Timestamp    time.Time
	MatchedFiles []string
	MatchedPaths []string
	RulePattern  string // the rule exactly as supplied at registration
	RuleIsRegex  bool
	RecordName   string // identity the record was stored under
}

// EventRecord is the persisted representation of one firing.
type EventRecord struct {
	Identity     string
	WatchID      string
	FiringID     string
	Trigger      TriggerKind
	Timestamp    time.Time
	MatchedFiles []string
	MatchedPaths []string
}

// Registry is the in-process store of event records. Implementations must
// make the identity check-then-write atomic so concurrent firings never
// share a record.
type Registry interface {
	Record(directoryLeaf, firingID string, record EventRecord) string
	Get(identity string) (EventRecord, bool)
	All() []EventRecord
	Find(pattern string) ([]EventRecord, error)
	Len() int
}

// Archive is the durable tier behind the registry.
type Archive interface {
	Append(ctx context.Context, record EventRecord) error
	Recent(ctx context.Context, limit int) ([]EventRecord, error)
	Count(ctx context.Context) (int, error)
}

// Notifier delivers a human-readable message about a firing to an external
// channel (e.g. Telegram).
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
