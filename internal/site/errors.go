package site

import (
	"errors"
	"fmt"
	"strings"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Problem is a single defect found while constructing a Site.
type Problem struct {
	// Location is a JavaScript-style path into the literal,
	// e.g. themeConfig.sidebar["/1.x/"][0].children[2].
	Location string
	Message  string
}

func (p Problem) String() string {
	if p.Location == "" {
		return p.Message
	}
	return p.Location + ": " + p.Message
}

// ConfigurationError reports malformed site data. It is fatal: no Site is
// produced. All problems found in one construction pass are included.
type ConfigurationError struct {
	Problems []Problem
	// Cause is the decoding error when the document could not be read at all.
	Cause error
}

func (e *ConfigurationError) Error() string {
	switch len(e.Problems) {
	case 0:
		return "invalid site configuration"
	case 1:
		return "invalid site configuration: " + e.Problems[0].String()
	default:
		return fmt.Sprintf("invalid site configuration: %s (and %d more)", e.Problems[0].String(), len(e.Problems)-1)
	}
}

// Details lists every problem on its own line.
func (e *ConfigurationError) Details() []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.String()
	}
	return out
}

// Unwrap exposes the classified form so exit codes and status codes map to
// the config category, followed by Cause when set.
func (e *ConfigurationError) Unwrap() []error {
	classified := derrors.ConfigError("invalid site configuration").
		WithContext("problems", len(e.Problems)).
		Build()
	if e.Cause == nil {
		return []error{classified}
	}
	return []error{classified, e.Cause}
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

type problemList struct {
	items []Problem
}

func (l *problemList) addf(location, format string, args ...any) {
	l.items = append(l.items, Problem{Location: location, Message: fmt.Sprintf(format, args...)})
}

func (l *problemList) err() error {
	if len(l.items) == 0 {
		return nil
	}
	return &ConfigurationError{Problems: l.items}
}

// checkItems applies the structural rules shared by literal construction and
// programmatic sidebars: leaf paths are non-empty and groups are not degenerate.
func checkItems(problems *problemList, loc string, items []NavItem) {
	for i, item := range items {
		itemLoc := fmt.Sprintf("%s[%d]", loc, i)
		switch it := item.(type) {
		case Leaf:
			if strings.TrimSpace(it.Path) == "" {
				problems.addf(itemLoc, "empty path")
			}
		case LabeledLeaf:
			if strings.TrimSpace(it.Path) == "" {
				problems.addf(itemLoc, "empty path")
			}
		case Group:
			if isDegenerate(it) {
				problems.addf(itemLoc, "group has no title, is not collapsable and has no children")
			}
			checkItems(problems, itemLoc+".children", it.Children)
		case nil:
			problems.addf(itemLoc, "missing navigation entry")
		}
	}
}

func isDegenerate(g Group) bool {
	return strings.TrimSpace(g.Title) == "" && !g.Collapsable && len(g.Children) == 0
}
