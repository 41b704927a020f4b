package site

import "fmt"

// ContentIndex answers whether a route has a content document behind it.
type ContentIndex interface {
	Has(route string) bool
}

// IssueKind classifies a ValidationIssue.
type IssueKind string

const (
	// IssueUnresolvedPath is a sidebar leaf whose page does not exist.
	IssueUnresolvedPath IssueKind = "unresolved_path"
	// IssueUnresolvedNavLink is a top navigation link whose page does not exist.
	IssueUnresolvedNavLink IssueKind = "unresolved_nav_link"
	// IssueForeignSection is a leaf that, once visited, shows a different sidebar.
	IssueForeignSection IssueKind = "foreign_section"
	// IssueDuplicatePath is a page listed more than once in the same section.
	IssueDuplicatePath IssueKind = "duplicate_path"
)

// ValidationIssue is an advisory finding. Issues never prevent a build.
type ValidationIssue struct {
	Kind     IssueKind `json:"kind"`
	Path     string    `json:"path"`
	Location string    `json:"location"`
	Prefix   string    `json:"prefix,omitempty"`
	Message  string    `json:"message"`
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Location, i.Message)
}

// Validate cross-checks the site's navigation against index and returns the
// issues in document order: top navigation first, then each sidebar section.
// It has no side effects. A nil index skips the content checks.
func Validate(s *Site, index ContentIndex) []ValidationIssue {
	v := &validator{site: s, index: index}
	v.nav("themeConfig.nav", s.Theme.Nav)
	for _, section := range s.Theme.Sidebar.sections {
		v.section(section)
	}
	return v.issues
}

type validator struct {
	site   *Site
	index  ContentIndex
	issues []ValidationIssue
}

func (v *validator) add(issue ValidationIssue) {
	v.issues = append(v.issues, issue)
}

func (v *validator) nav(loc string, links []NavLink) {
	for i, l := range links {
		lLoc := fmt.Sprintf("%s[%d]", loc, i)
		if l.IsDropdown() {
			v.nav(lLoc+".items", l.Items)
			continue
		}
		if v.index == nil || IsExternal(l.Link) {
			continue
		}
		if !v.index.Has(NormalizeRoute(l.Link)) {
			v.add(ValidationIssue{
				Kind:     IssueUnresolvedNavLink,
				Path:     l.Link,
				Location: lLoc,
				Message:  fmt.Sprintf("navigation link %q (%s) has no content document", l.Text, l.Link),
			})
		}
	}
}

func (v *validator) section(section *VersionSection) {
	loc := fmt.Sprintf("themeConfig.sidebar[%q]", section.Prefix)
	seen := make(map[string]string)
	key := normalizePrefix(section.Prefix)

	var walk func(loc string, items []NavItem)
	walk = func(loc string, items []NavItem) {
		for i, item := range items {
			itemLoc := fmt.Sprintf("%s[%d]", loc, i)
			if g, ok := item.(Group); ok {
				walk(itemLoc+".children", g.Children)
				continue
			}
			p, _ := ItemPath(item)
			if IsExternal(p) {
				continue
			}
			route := NormalizeRoute(p)

			if first, dup := seen[route]; dup {
				v.add(ValidationIssue{
					Kind:     IssueDuplicatePath,
					Path:     p,
					Location: itemLoc,
					Prefix:   section.Prefix,
					Message:  fmt.Sprintf("%s is already listed at %s", p, first),
				})
			} else {
				seen[route] = itemLoc
			}

			if v.index != nil && !v.index.Has(route) {
				v.add(ValidationIssue{
					Kind:     IssueUnresolvedPath,
					Path:     p,
					Location: itemLoc,
					Prefix:   section.Prefix,
					Message:  fmt.Sprintf("%s has no content document", p),
				})
			}

			if resolved, ok := v.site.Resolve(route); ok && normalizePrefix(resolved.Prefix) != key {
				v.add(ValidationIssue{
					Kind:     IssueForeignSection,
					Path:     p,
					Location: itemLoc,
					Prefix:   section.Prefix,
					Message:  fmt.Sprintf("%s is listed under %s but renders with the %s sidebar", p, section.Prefix, resolved.Prefix),
				})
			}
		}
	}
	walk(loc, section.Items)
}
