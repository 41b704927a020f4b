package site

import (
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docnav/internal/literal"
)

// Site is the complete, immutable navigation configuration of a documentation
// site. Build it with Construct; it is safe for concurrent reads.
type Site struct {
	Title       string
	Description string
	Domain      string
	Lang        string
	Head        []HeadTag
	Theme       ThemeConfig
	Plugins     PluginConfig

	// Extra holds top-level keys this model does not interpret; they are
	// passed through to the framework untouched.
	Extra *literal.Object

	// prefixes holds sidebar keys ordered for longest-prefix matching.
	prefixes []string
}

// Language returns the parsed site language, or language.Und when unset.
func (s *Site) Language() language.Tag {
	if s.Lang == "" {
		return language.Und
	}
	tag, err := language.Parse(s.Lang)
	if err != nil {
		return language.Und
	}
	return tag
}

// HeadTag is an element injected into every page's <head>, in order.
type HeadTag struct {
	Name    string
	Attrs   []Attr
	Content string
}

// Attr is a single HTML attribute of a HeadTag.
type Attr struct {
	Name  string
	Value string
}

// ThemeConfig mirrors the framework's themeConfig block.
type ThemeConfig struct {
	Logo         string
	LastUpdated  string
	Repo         string
	RepoLabel    string
	DocsRepo     string
	DocsBranch   string
	DocsDir      string
	EditLinks    bool
	EditLinkText string
	Nav          []NavLink
	Sidebar      SidebarConfig

	Extra *literal.Object
}

// NavLink is a top navigation bar entry: either a link or a dropdown of links.
type NavLink struct {
	Text  string
	Link  string
	Items []NavLink
}

// IsDropdown reports whether the entry groups other links.
func (l NavLink) IsDropdown() bool { return len(l.Items) > 0 }

// Plugin is one entry of the plugin configuration.
type Plugin struct {
	Name string
	// Options is the plugin's option bag. Its shape belongs to the plugin and
	// is only interpreted by whichever component owns that plugin.
	Options any
}

// PluginConfig is the ordered plugin-name to option-bag mapping.
type PluginConfig struct {
	entries []Plugin
}

// Len returns the number of configured plugins.
func (p PluginConfig) Len() int { return len(p.entries) }

// All returns copies of the plugins in declaration order.
func (p PluginConfig) All() []Plugin {
	out := make([]Plugin, len(p.entries))
	for i, e := range p.entries {
		out[i] = Plugin{Name: e.Name, Options: literal.Clone(e.Options)}
	}
	return out
}

// Get returns a copy of the named plugin's option bag.
func (p PluginConfig) Get(name string) (any, bool) {
	for _, e := range p.entries {
		if e.Name == name {
			return literal.Clone(e.Options), true
		}
	}
	return nil, false
}

// Names returns plugin names in declaration order.
func (p PluginConfig) Names() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.Name
	}
	return names
}
