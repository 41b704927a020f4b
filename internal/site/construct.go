package site

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docnav/internal/literal"
)

// Top-level and themeConfig keys of the framework configuration file.
const (
	keyTitle       = "title"
	keyDescription = "description"
	keyDomain      = "domain"
	keyLang        = "lang"
	keyHead        = "head"
	keyTheme       = "themeConfig"
	keyPlugins     = "plugins"

	keyLogo         = "logo"
	keyLastUpdated  = "lastUpdated"
	keyRepo         = "repo"
	keyRepoLabel    = "repoLabel"
	keyDocsRepo     = "docsRepo"
	keyDocsBranch   = "docsBranch"
	keyDocsDir      = "docsDir"
	keyEditLinks    = "editLinks"
	keyEditLinkText = "editLinkText"
	keyNav          = "nav"
	keySidebar      = "sidebar"

	keyText        = "text"
	keyLink        = "link"
	keyItems       = "items"
	keyCollapsable = "collapsable"
	keyChildren    = "children"
)

// DefaultLastUpdatedLabel is used when lastUpdated is set to true.
const DefaultLastUpdatedLabel = "Last Updated"

// headElements are the elements a page <head> may contain.
var headElements = map[atom.Atom]bool{
	atom.Base:     true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Noscript: true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Title:    true,
}

// Construct builds a Site from a literal document shaped like the framework's
// configuration file. It is deterministic and never mutates lit.
//
// Navigation entries are decided here: a bare string is a Leaf, a
// [path, label] pair is a LabeledLeaf and an object with title, collapsable
// and children is a Group. Anything else, repeated keys, empty leaf paths and
// degenerate groups produce a *ConfigurationError listing every problem.
func Construct(lit *literal.Object) (*Site, error) {
	if lit == nil {
		return nil, &ConfigurationError{Problems: []Problem{{Message: "no site literal given"}}}
	}
	b := &builder{}
	s := b.site(lit)
	if err := b.problems.err(); err != nil {
		return nil, err
	}
	s.prefixes = matchOrder(s.Theme.Sidebar)
	return s, nil
}

// Load decodes a YAML or JSON document and constructs a Site from it.
func Load(data []byte) (*Site, error) {
	lit, err := literal.DecodeObject(data)
	if err != nil {
		return nil, &ConfigurationError{Problems: []Problem{{Message: err.Error()}}, Cause: err}
	}
	return Construct(lit)
}

// LoadFile reads and constructs a Site from a YAML or JSON file.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Problems: []Problem{{Location: path, Message: err.Error()}}}
	}
	s, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// matchOrder sorts sidebar keys longest first for prefix matching.
func matchOrder(sidebar SidebarConfig) []string {
	keys := make([]string, 0, sidebar.Len())
	for _, s := range sidebar.sections {
		keys = append(keys, normalizePrefix(s.Prefix))
	}
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}

type builder struct {
	problems problemList
}

func join(loc, key string) string {
	if loc == "" {
		return key
	}
	if isIdentifier(key) {
		return loc + "." + key
	}
	return fmt.Sprintf("%s[%q]", loc, key)
}

func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		letter := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func (b *builder) noDuplicates(loc string, obj *literal.Object) {
	for _, key := range obj.Duplicates() {
		b.problems.addf(join(loc, key), "duplicate key %q", key)
	}
}

func (b *builder) object(loc string, v any) (*literal.Object, bool) {
	obj, ok := v.(*literal.Object)
	if !ok {
		b.problems.addf(loc, "expected an object, got %s", literal.TypeName(v))
		return nil, false
	}
	return obj, true
}

func (b *builder) list(loc string, v any) ([]any, bool) {
	list, ok := v.([]any)
	if !ok {
		b.problems.addf(loc, "expected an array, got %s", literal.TypeName(v))
		return nil, false
	}
	return list, true
}

func (b *builder) str(loc string, v any) string {
	s, ok := v.(string)
	if !ok {
		b.problems.addf(loc, "expected a string, got %s", literal.TypeName(v))
	}
	return s
}

func (b *builder) boolean(loc string, v any) bool {
	bv, ok := v.(bool)
	if !ok {
		b.problems.addf(loc, "expected a boolean, got %s", literal.TypeName(v))
	}
	return bv
}

func (b *builder) site(lit *literal.Object) *Site {
	b.noDuplicates("", lit)
	s := &Site{}
	extra := &literal.Object{}
	for _, f := range lit.Fields {
		loc := join("", f.Key)
		switch f.Key {
		case keyTitle:
			s.Title = b.str(loc, f.Value)
		case keyDescription:
			s.Description = b.str(loc, f.Value)
		case keyDomain:
			s.Domain = b.str(loc, f.Value)
			b.checkDomain(loc, s.Domain)
		case keyLang:
			s.Lang = b.str(loc, f.Value)
			if s.Lang == "" {
				continue
			}
			if _, err := language.Parse(s.Lang); err != nil {
				b.problems.addf(loc, "invalid language tag %q: %v", s.Lang, err)
			}
		case keyHead:
			s.Head = b.head(loc, f.Value)
		case keyTheme:
			s.Theme = b.theme(loc, f.Value)
		case keyPlugins:
			s.Plugins = b.plugins(loc, f.Value)
		default:
			extra.Fields = append(extra.Fields, literal.Field{Key: f.Key, Value: literal.Clone(f.Value)})
		}
	}
	if extra.Len() > 0 {
		s.Extra = extra
	}
	return s
}

func (b *builder) checkDomain(loc, domain string) {
	if domain == "" {
		return
	}
	u, err := url.Parse(domain)
	if err != nil {
		b.problems.addf(loc, "invalid URL %q: %v", domain, err)
		return
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		b.problems.addf(loc, "domain must be an absolute http(s) URL, got %q", domain)
	}
}

func (b *builder) head(loc string, v any) []HeadTag {
	entries, ok := b.list(loc, v)
	if !ok {
		return nil
	}
	tags := make([]HeadTag, 0, len(entries))
	for i, e := range entries {
		tagLoc := fmt.Sprintf("%s[%d]", loc, i)
		parts, ok := b.list(tagLoc, e)
		if !ok {
			continue
		}
		if len(parts) < 2 || len(parts) > 3 {
			b.problems.addf(tagLoc, "head entry must be [tag, attributes] or [tag, attributes, content]")
			continue
		}
		tag := HeadTag{Name: b.str(tagLoc+"[0]", parts[0])}
		if a := atom.Lookup([]byte(tag.Name)); !headElements[a] {
			b.problems.addf(tagLoc+"[0]", "%q is not allowed in <head>", tag.Name)
		}
		if attrs, ok := b.object(tagLoc+"[1]", parts[1]); ok {
			b.noDuplicates(tagLoc+"[1]", attrs)
			for _, f := range attrs.Fields {
				tag.Attrs = append(tag.Attrs, Attr{Name: f.Key, Value: b.attrValue(join(tagLoc+"[1]", f.Key), f.Value)})
			}
		}
		if len(parts) == 3 {
			tag.Content = b.str(tagLoc+"[2]", parts[2])
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func (b *builder) attrValue(loc string, v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		b.problems.addf(loc, "attribute value must be a string, got %s", literal.TypeName(v))
		return ""
	}
}

func (b *builder) theme(loc string, v any) ThemeConfig {
	var t ThemeConfig
	obj, ok := b.object(loc, v)
	if !ok {
		return t
	}
	b.noDuplicates(loc, obj)
	extra := &literal.Object{}
	for _, f := range obj.Fields {
		fLoc := join(loc, f.Key)
		switch f.Key {
		case keyLogo:
			t.Logo = b.str(fLoc, f.Value)
		case keyLastUpdated:
			t.LastUpdated = b.lastUpdated(fLoc, f.Value)
		case keyRepo:
			t.Repo = b.str(fLoc, f.Value)
		case keyRepoLabel:
			t.RepoLabel = b.str(fLoc, f.Value)
		case keyDocsRepo:
			t.DocsRepo = b.str(fLoc, f.Value)
		case keyDocsBranch:
			t.DocsBranch = b.str(fLoc, f.Value)
		case keyDocsDir:
			t.DocsDir = b.str(fLoc, f.Value)
		case keyEditLinks:
			t.EditLinks = b.boolean(fLoc, f.Value)
		case keyEditLinkText:
			t.EditLinkText = b.str(fLoc, f.Value)
		case keyNav:
			t.Nav = b.nav(fLoc, f.Value, 0)
		case keySidebar:
			t.Sidebar = b.sidebar(fLoc, f.Value)
		default:
			extra.Fields = append(extra.Fields, literal.Field{Key: f.Key, Value: literal.Clone(f.Value)})
		}
	}
	if extra.Len() > 0 {
		t.Extra = extra
	}
	return t
}

func (b *builder) lastUpdated(loc string, v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return DefaultLastUpdatedLabel
		}
		return ""
	default:
		b.problems.addf(loc, "expected a string or boolean, got %s", literal.TypeName(v))
		return ""
	}
}

func (b *builder) nav(loc string, v any, depth int) []NavLink {
	entries, ok := b.list(loc, v)
	if !ok {
		return nil
	}
	links := make([]NavLink, 0, len(entries))
	for i, e := range entries {
		eLoc := fmt.Sprintf("%s[%d]", loc, i)
		obj, ok := b.object(eLoc, e)
		if !ok {
			continue
		}
		b.noDuplicates(eLoc, obj)
		var link NavLink
		var hasLink, hasItems bool
		for _, f := range obj.Fields {
			fLoc := join(eLoc, f.Key)
			switch f.Key {
			case keyText:
				link.Text = b.str(fLoc, f.Value)
			case keyLink:
				link.Link = b.str(fLoc, f.Value)
				hasLink = true
			case keyItems:
				hasItems = true
				if depth > 0 {
					b.problems.addf(fLoc, "dropdown items cannot be nested further")
					continue
				}
				link.Items = b.nav(fLoc, f.Value, depth+1)
			default:
				b.problems.addf(fLoc, "unknown navigation key %q", f.Key)
			}
		}
		switch {
		case link.Text == "":
			b.problems.addf(eLoc, "navigation entry needs a text")
		case hasLink == hasItems:
			b.problems.addf(eLoc, "navigation entry needs exactly one of link or items")
		case hasLink && strings.TrimSpace(link.Link) == "":
			b.problems.addf(join(eLoc, keyLink), "empty link")
		case hasItems && len(link.Items) == 0:
			b.problems.addf(join(eLoc, keyItems), "dropdown has no items")
		}
		links = append(links, link)
	}
	if len(links) == 0 {
		return nil
	}
	return links
}

func (b *builder) sidebar(loc string, v any) SidebarConfig {
	var cfg SidebarConfig
	switch t := v.(type) {
	case []any:
		// A bare array is the sidebar for every route.
		cfg.add(VersionSection{Prefix: "/", Items: b.items(fmt.Sprintf("%s[%q]", loc, "/"), t)})
	case *literal.Object:
		for _, f := range t.Fields {
			sLoc := fmt.Sprintf("%s[%q]", loc, f.Key)
			if !strings.HasPrefix(f.Key, "/") {
				b.problems.addf(sLoc, "sidebar key must be a path prefix starting with /")
			}
			list, ok := b.list(sLoc, f.Value)
			if !ok {
				continue
			}
			section := VersionSection{Prefix: f.Key, Items: b.items(sLoc, list)}
			if !cfg.add(section) {
				b.problems.addf(sLoc, "duplicate sidebar key %q", f.Key)
			}
		}
	default:
		b.problems.addf(loc, "expected an object keyed by path prefix, got %s", literal.TypeName(v))
	}
	return cfg
}

func (b *builder) items(loc string, entries []any) []NavItem {
	var items []NavItem
	for i, e := range entries {
		if item, ok := b.item(fmt.Sprintf("%s[%d]", loc, i), e); ok {
			items = append(items, item)
		}
	}
	return items
}

func (b *builder) item(loc string, v any) (NavItem, bool) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			b.problems.addf(loc, "empty path")
		}
		return Leaf{Path: t}, true
	case []any:
		if len(t) != 2 {
			b.problems.addf(loc, "navigation pair must be [path, label], got %d elements", len(t))
			return nil, false
		}
		path, okPath := t[0].(string)
		label, okLabel := t[1].(string)
		if !okPath || !okLabel {
			b.problems.addf(loc, "navigation pair must hold two strings")
			return nil, false
		}
		if strings.TrimSpace(path) == "" {
			b.problems.addf(loc, "empty path")
		}
		return LabeledLeaf{Path: path, Label: label}, true
	case *literal.Object:
		return b.group(loc, t), true
	default:
		b.problems.addf(loc, "navigation entry must be a path, a [path, label] pair or a group, got %s", literal.TypeName(v))
		return nil, false
	}
}

func (b *builder) group(loc string, obj *literal.Object) Group {
	b.noDuplicates(loc, obj)
	g := Group{Collapsable: true}
	for _, f := range obj.Fields {
		fLoc := join(loc, f.Key)
		switch f.Key {
		case keyTitle:
			g.Title = b.str(fLoc, f.Value)
		case keyCollapsable:
			g.Collapsable = b.boolean(fLoc, f.Value)
		case keyChildren:
			if list, ok := b.list(fLoc, f.Value); ok {
				g.Children = b.items(fLoc, list)
			}
		default:
			b.problems.addf(fLoc, "unknown group key %q", f.Key)
		}
	}
	if isDegenerate(g) {
		b.problems.addf(loc, "group has no title, is not collapsable and has no children")
	}
	return g
}

func (b *builder) plugins(loc string, v any) PluginConfig {
	var cfg PluginConfig
	seen := make(map[string]bool)
	add := func(pLoc, name string, opts any) {
		if name == "" {
			b.problems.addf(pLoc, "plugin name is empty")
			return
		}
		if seen[name] {
			b.problems.addf(pLoc, "duplicate plugin %q", name)
			return
		}
		seen[name] = true
		cfg.entries = append(cfg.entries, Plugin{Name: name, Options: literal.Clone(opts)})
	}
	switch t := v.(type) {
	case *literal.Object:
		for _, f := range t.Fields {
			add(join(loc, f.Key), f.Key, f.Value)
		}
	case []any:
		for i, e := range t {
			pLoc := fmt.Sprintf("%s[%d]", loc, i)
			switch pe := e.(type) {
			case string:
				add(pLoc, pe, &literal.Object{})
			case []any:
				if len(pe) != 2 {
					b.problems.addf(pLoc, "plugin entry must be [name, options]")
					continue
				}
				add(pLoc, b.str(pLoc+"[0]", pe[0]), pe[1])
			default:
				b.problems.addf(pLoc, "plugin entry must be a name or [name, options], got %s", literal.TypeName(e))
			}
		}
	default:
		b.problems.addf(loc, "expected an object keyed by plugin name, got %s", literal.TypeName(v))
	}
	return cfg
}
