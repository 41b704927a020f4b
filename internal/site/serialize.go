package site

import "git.home.luguber.info/inful/docnav/internal/literal"

// Serialize renders s back into the framework's configuration shape. The
// result constructs to a Site equal to s: Construct(Serialize(s)) == s.
//
// Leaves become bare strings, labeled leaves [path, label] pairs and groups
// objects with an explicit collapsable flag. Empty optional fields are left
// out. Uninterpreted keys are appended after the known ones.
func Serialize(s *Site) *literal.Object {
	out := &literal.Object{}
	setString(out, keyTitle, s.Title)
	setString(out, keyDescription, s.Description)
	setString(out, keyDomain, s.Domain)
	setString(out, keyLang, s.Lang)
	if len(s.Head) > 0 {
		out.Set(keyHead, serializeHead(s.Head))
	}
	if theme := serializeTheme(s.Theme); theme.Len() > 0 {
		out.Set(keyTheme, theme)
	}
	if s.Plugins.Len() > 0 {
		plugins := &literal.Object{}
		for _, p := range s.Plugins.entries {
			plugins.Fields = append(plugins.Fields, literal.Field{Key: p.Name, Value: literal.Clone(p.Options)})
		}
		out.Set(keyPlugins, plugins)
	}
	appendExtra(out, s.Extra)
	return out
}

func setString(obj *literal.Object, key, value string) {
	if value != "" {
		obj.Set(key, value)
	}
}

func appendExtra(obj, extra *literal.Object) {
	if extra == nil {
		return
	}
	for _, f := range extra.Fields {
		obj.Fields = append(obj.Fields, literal.Field{Key: f.Key, Value: literal.Clone(f.Value)})
	}
}

func serializeHead(tags []HeadTag) []any {
	out := make([]any, 0, len(tags))
	for _, t := range tags {
		attrs := &literal.Object{}
		for _, a := range t.Attrs {
			attrs.Fields = append(attrs.Fields, literal.Field{Key: a.Name, Value: a.Value})
		}
		entry := []any{t.Name, attrs}
		if t.Content != "" {
			entry = append(entry, t.Content)
		}
		out = append(out, entry)
	}
	return out
}

func serializeTheme(t ThemeConfig) *literal.Object {
	out := &literal.Object{}
	setString(out, keyLogo, t.Logo)
	setString(out, keyLastUpdated, t.LastUpdated)
	setString(out, keyRepo, t.Repo)
	setString(out, keyRepoLabel, t.RepoLabel)
	setString(out, keyDocsRepo, t.DocsRepo)
	setString(out, keyDocsBranch, t.DocsBranch)
	setString(out, keyDocsDir, t.DocsDir)
	if t.EditLinks {
		out.Set(keyEditLinks, true)
	}
	setString(out, keyEditLinkText, t.EditLinkText)
	if len(t.Nav) > 0 {
		out.Set(keyNav, serializeNav(t.Nav))
	}
	if t.Sidebar.Len() > 0 {
		out.Set(keySidebar, SerializeSidebar(t.Sidebar))
	}
	appendExtra(out, t.Extra)
	return out
}

func serializeNav(links []NavLink) []any {
	out := make([]any, 0, len(links))
	for _, l := range links {
		obj := literal.Obj(keyText, l.Text)
		if l.IsDropdown() {
			obj.Set(keyItems, serializeNav(l.Items))
		} else {
			obj.Set(keyLink, l.Link)
		}
		out = append(out, obj)
	}
	return out
}

// SerializeSidebar renders a sidebar as an object keyed by path prefix.
func SerializeSidebar(cfg SidebarConfig) *literal.Object {
	out := &literal.Object{}
	for _, section := range cfg.sections {
		out.Fields = append(out.Fields, literal.Field{Key: section.Prefix, Value: SerializeItems(section.Items)})
	}
	return out
}

// SerializeItems renders navigation entries in order.
func SerializeItems(items []NavItem) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case Leaf:
			out = append(out, it.Path)
		case LabeledLeaf:
			out = append(out, []any{it.Path, it.Label})
		case Group:
			out = append(out, literal.Obj(
				keyTitle, it.Title,
				keyCollapsable, it.Collapsable,
				keyChildren, SerializeItems(it.Children),
			))
		}
	}
	return out
}
