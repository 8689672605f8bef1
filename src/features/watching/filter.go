package watching

import (
	"fmt"
	"path"
	"regexp"
)

// rule is the normalized inclusion rule of a watch: exactly one of a
// compiled regex or a single glob pattern. Glob supports * and ?, one
// pattern only, no alternation; regex is the escape hatch for anything
// richer.
type rule struct {
	pattern string
	regex   *regexp.Regexp // nil for glob rules
}

// newRule builds the rule from a registration request, enforcing the
// exactly-one invariant before anything is armed.
func newRule(cfg Config) (*rule, error) {
	if cfg.Regex != "" && cfg.Glob != "" {
		return nil, ErrRuleConflict
	}
	if cfg.Regex == "" && cfg.Glob == "" {
		return nil, ErrRuleMissing
	}

	if cfg.Regex != "" {
		compiled, err := regexp.Compile(cfg.Regex)
		if err != nil {
			return nil, fmt.Errorf("invalid regex rule: %w", err)
		}
		return &rule{pattern: cfg.Regex, regex: compiled}, nil
	}

	if _, err := path.Match(cfg.Glob, "probe"); err != nil {
		return nil, fmt.Errorf("invalid glob rule %q: %w", cfg.Glob, err)
	}
	return &rule{pattern: cfg.Glob}, nil
}

func (r *rule) isRegex() bool {
	return r.regex != nil
}

// matches reports whether a changed file's leaf name satisfies the rule.
func (r *rule) matches(name string) bool {
	if r.regex != nil {
		return r.regex.MatchString(name)
	}
	ok, _ := path.Match(r.pattern, name)
	return ok
}
