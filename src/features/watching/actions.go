package watching

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"text/template"
	"time"

	"dirwatch/src/watch"
)

// ActionKind tags the variant of a user-supplied action.
type ActionKind string

const (
	// ActionCommand runs a shell command; the command text is a
	// text/template over the firing context, and the context is also
	// exported as DIRWATCH_* environment variables.
	ActionCommand ActionKind = "command"
	// ActionTelegram sends a message through the configured notifier.
	ActionTelegram ActionKind = "telegram"
	// ActionFunc invokes a pre-built Go callable.
	ActionFunc ActionKind = "func"
)

// Action is the user-supplied reaction to a firing, either as source text
// (command, telegram message template) or as a pre-built callable.
type Action struct {
	Kind    ActionKind                                `json:"kind"`
	Command string                                    `json:"command,omitempty"`
	Message string                                    `json:"message,omitempty"`
	Func    func(context.Context, watch.Firing) error `json:"-"`
}

// Invoker is the single internal callable representation every action is
// normalized into at registration time.
type Invoker func(context.Context, watch.Firing) error

const defaultTelegramMessage = "{{.Trigger}} in {{.Directory}}: {{.Files}}"

const commandTimeout = 30 * time.Second

// templateData is the firing context bound as named values for source-text
// actions.
type templateData struct {
	Files     string
	Paths     string
	Directory string
	Trigger   string
	Timestamp string
	Record    string
	Pattern   string
	Recursive bool
}

func bindContext(firing watch.Firing) templateData {
	return templateData{
		Files:     strings.Join(firing.MatchedFiles, " "),
		Paths:     strings.Join(firing.MatchedPaths, " "),
		Directory: firing.Directory,
		Trigger:   string(firing.Trigger),
		Timestamp: firing.Timestamp.Format(time.RFC3339),
		Record:    firing.RecordName,
		Pattern:   firing.RulePattern,
		Recursive: firing.Recursive,
	}
}

// normalizeAction converts the tagged action variant into an Invoker. All
// source text is parsed here so a malformed action aborts registration
// instead of surfacing on the dispatch path.
func normalizeAction(action Action, notifier watch.Notifier) (Invoker, error) {
	switch action.Kind {
	case ActionFunc:
		if action.Func == nil {
			return nil, fmt.Errorf("%w: func action without a callable", ErrInvalidAction)
		}
		return Invoker(action.Func), nil

	case ActionCommand:
		if strings.TrimSpace(action.Command) == "" {
			return nil, fmt.Errorf("%w: command action without command text", ErrInvalidAction)
		}
		tmpl, err := template.New("command").Parse(action.Command)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		return commandInvoker(tmpl), nil

	case ActionTelegram:
		if notifier == nil {
			return nil, ErrNotifierMissing
		}
		message := action.Message
		if message == "" {
			message = defaultTelegramMessage
		}
		tmpl, err := template.New("message").Parse(message)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		return telegramInvoker(tmpl, notifier), nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, action.Kind)
	}
}

// commandInvoker runs the rendered command through the shell so quoting and
// pipes behave as users expect. Failures propagate to the caller untouched.
func commandInvoker(tmpl *template.Template) Invoker {
	return func(ctx context.Context, firing watch.Firing) error {
		var rendered strings.Builder
		if err := tmpl.Execute(&rendered, bindContext(firing)); err != nil {
			return fmt.Errorf("failed to render command: %w", err)
		}

		runCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		cmd := exec.CommandContext(runCtx, "/bin/sh", "-c", rendered.String())
		cmd.Env = append(os.Environ(), firingEnv(firing)...)
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("command failed: %w: %s", err, strings.TrimSpace(string(output)))
		}
		return nil
	}
}

func telegramInvoker(tmpl *template.Template, notifier watch.Notifier) Invoker {
	return func(ctx context.Context, firing watch.Firing) error {
		var rendered strings.Builder
		if err := tmpl.Execute(&rendered, bindContext(firing)); err != nil {
			return fmt.Errorf("failed to render message: %w", err)
		}
		return notifier.Notify(ctx, rendered.String())
	}
}

func firingEnv(firing watch.Firing) []string {
	return []string{
		"DIRWATCH_FILES=" + strings.Join(firing.MatchedFiles, ":"),
		"DIRWATCH_PATHS=" + strings.Join(firing.MatchedPaths, ":"),
		"DIRWATCH_DIRECTORY=" + firing.Directory,
		"DIRWATCH_TRIGGER=" + string(firing.Trigger),
		"DIRWATCH_TIMESTAMP=" + firing.Timestamp.Format(time.RFC3339),
		"DIRWATCH_RECORD=" + firing.RecordName,
		"DIRWATCH_PATTERN=" + firing.RulePattern,
		"DIRWATCH_RECURSIVE=" + strconv.FormatBool(firing.Recursive),
	}
}
