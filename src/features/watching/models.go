package watching

import (
	"errors"
	"time"

	"dirwatch/src/infra/watcher"
	"dirwatch/src/watch"
)

var (
	ErrPathRequired    = errors.New("watch path is required")
	ErrRuleConflict    = errors.New("regex and glob rules are mutually exclusive")
	ErrRuleMissing     = errors.New("a regex or glob rule is required")
	ErrInvalidTrigger  = errors.New("invalid trigger kind")
	ErrInvalidAction   = errors.New("invalid action")
	ErrWatchNotFound   = errors.New("watch not found")
	ErrNotifierMissing = errors.New("telegram notifier is not configured")
)

// Config is a watch registration request: what to observe, how to filter,
// and what to run when a matching change fires.
type Config struct {
	Path      string            `json:"path"`
	Regex     string            `json:"regex,omitempty"`
	Glob      string            `json:"glob,omitempty"`
	Recursive bool              `json:"recursive"`
	Trigger   watch.TriggerKind `json:"trigger"`
	Action    Action            `json:"action"`
}

// Registration is an armed watch. Once registered it stays armed until
// explicitly unregistered; there is no paused state.
type Registration struct {
	ID        string    `json:"id"`
	Config    Config    `json:"config"`
	CreatedAt time.Time `json:"createdAt"`

	rule   *rule
	invoke Invoker
	handle *watcher.Subscription
}
