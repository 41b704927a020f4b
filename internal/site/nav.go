package site

import (
	"fmt"
	"strings"
)

// ItemKind identifies the variant of a NavItem.
type ItemKind int

const (
	KindLeaf ItemKind = iota
	KindLabeledLeaf
	KindGroup
)

func (k ItemKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindLabeledLeaf:
		return "labeled-leaf"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
}

// NavItem is a sidebar entry. The set of implementations is closed:
// Leaf, LabeledLeaf and Group.
type NavItem interface {
	Kind() ItemKind
	navItem()
}

// Leaf links to a page and takes its label from the page title.
type Leaf struct {
	Path string
}

// LabeledLeaf links to a page with an explicit label.
type LabeledLeaf struct {
	Path  string
	Label string
}

// Group is a titled, optionally collapsible list of entries.
type Group struct {
	Title       string
	Collapsable bool
	Children    []NavItem
}

func (Leaf) Kind() ItemKind        { return KindLeaf }
func (LabeledLeaf) Kind() ItemKind { return KindLabeledLeaf }
func (Group) Kind() ItemKind       { return KindGroup }

func (Leaf) navItem()        {}
func (LabeledLeaf) navItem() {}
func (Group) navItem()       {}

// ItemPath returns the target path of a leaf item and false for groups.
func ItemPath(item NavItem) (string, bool) {
	switch it := item.(type) {
	case Leaf:
		return it.Path, true
	case LabeledLeaf:
		return it.Path, true
	default:
		return "", false
	}
}

// Titler looks up page titles by route.
type Titler interface {
	Title(route string) (string, bool)
}

// Label returns the display label of an item. Leaves use the page title from
// titles when one is known and fall back to the path.
func Label(item NavItem, titles Titler) string {
	switch it := item.(type) {
	case LabeledLeaf:
		return it.Label
	case Group:
		return it.Title
	case Leaf:
		if titles != nil {
			if title, ok := titles.Title(it.Path); ok && title != "" {
				return title
			}
		}
		return it.Path
	default:
		return ""
	}
}

// Page is a flattened leaf: a path and its explicit label, if any.
type Page struct {
	Path  string
	Label string
}

// VersionSection is the sidebar shown for every route under Prefix.
type VersionSection struct {
	Prefix string
	Items  []NavItem
}

// Pages returns the section's leaves in reading order (depth first).
func (v *VersionSection) Pages() []Page {
	var pages []Page
	var walk func(items []NavItem)
	walk = func(items []NavItem) {
		for _, item := range items {
			switch it := item.(type) {
			case Leaf:
				pages = append(pages, Page{Path: it.Path})
			case LabeledLeaf:
				pages = append(pages, Page{Path: it.Path, Label: it.Label})
			case Group:
				walk(it.Children)
			}
		}
	}
	walk(v.Items)
	return pages
}

// Groups returns the section's top-level groups in order.
func (v *VersionSection) Groups() []Group {
	var groups []Group
	for _, item := range v.Items {
		if g, ok := item.(Group); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// SidebarConfig maps path prefixes to version sections, in declaration order.
type SidebarConfig struct {
	sections []*VersionSection
	index    map[string]int
}

// NewSidebarConfig builds a sidebar from sections in order. Prefixes are
// compared with a trailing slash, so "/guide" and "/guide/" collide.
func NewSidebarConfig(sections ...VersionSection) (SidebarConfig, error) {
	var problems problemList
	cfg := SidebarConfig{index: make(map[string]int, len(sections))}
	for _, s := range sections {
		loc := fmt.Sprintf("sidebar[%q]", s.Prefix)
		if !cfg.add(s) {
			problems.addf(loc, "duplicate sidebar key %q", s.Prefix)
			continue
		}
		checkItems(&problems, loc, s.Items)
	}
	if err := problems.err(); err != nil {
		return SidebarConfig{}, err
	}
	return cfg, nil
}

// add appends a section; it reports false when the prefix is already taken.
func (c *SidebarConfig) add(s VersionSection) bool {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	key := normalizePrefix(s.Prefix)
	if _, dup := c.index[key]; dup {
		return false
	}
	section := s
	c.index[key] = len(c.sections)
	c.sections = append(c.sections, &section)
	return true
}

// Len returns the number of sections.
func (c SidebarConfig) Len() int { return len(c.sections) }

// Sections returns the sections in declaration order.
func (c SidebarConfig) Sections() []*VersionSection {
	out := make([]*VersionSection, len(c.sections))
	copy(out, c.sections)
	return out
}

// Prefixes returns the declared keys in order.
func (c SidebarConfig) Prefixes() []string {
	out := make([]string, len(c.sections))
	for i, s := range c.sections {
		out[i] = s.Prefix
	}
	return out
}

// Get returns the section declared for prefix.
func (c SidebarConfig) Get(prefix string) (*VersionSection, bool) {
	i, ok := c.index[normalizePrefix(prefix)]
	if !ok {
		return nil, false
	}
	return c.sections[i], true
}

// normalizePrefix gives a sidebar key a leading and trailing slash.
func normalizePrefix(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
