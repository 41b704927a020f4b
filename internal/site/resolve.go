package site

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var externalLink = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// IsExternal reports whether link points outside the site (has a scheme).
func IsExternal(link string) bool {
	return externalLink.MatchString(link)
}

// NormalizeRoute turns a request path or navigation link into the canonical
// route form used for matching and content lookup: a leading slash, no query
// or fragment, no .html/.md suffix, README/index pages as their directory with
// a trailing slash, and NFC-normalized text.
func NormalizeRoute(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = norm.NFC.String(strings.TrimSpace(p))
	if p == "" {
		return "/"
	}
	trailing := strings.HasSuffix(p, "/")
	p = path.Clean("/" + p)

	base := path.Base(p)
	for _, ext := range []string{".html", ".md"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			p = strings.TrimSuffix(p, ext)
			break
		}
	}
	if strings.EqualFold(base, "readme") || base == "index" {
		p = path.Dir(p)
		trailing = true
	}
	if trailing && p != "/" {
		p += "/"
	}
	return p
}

// Resolve selects the sidebar section for requestPath: the section whose key
// is the longest prefix of the route, falling back to the root "/" section.
// It reports false when no section applies.
func (s *Site) Resolve(requestPath string) (*VersionSection, bool) {
	route := NormalizeRoute(requestPath)
	prefixes := s.prefixes
	if prefixes == nil {
		prefixes = matchOrder(s.Theme.Sidebar)
	}
	for _, key := range prefixes {
		if strings.HasPrefix(route, key) || route+"/" == key {
			return s.Theme.Sidebar.Get(key)
		}
	}
	return nil, false
}

// Neighbors returns the pages before and after route in its section's reading
// order. Either result is nil at the ends of the section or when route is not
// listed in the sidebar.
func (s *Site) Neighbors(route string) (prev, next *Page) {
	section, ok := s.Resolve(route)
	if !ok {
		return nil, nil
	}
	target := NormalizeRoute(route)
	pages := section.Pages()
	for i := range pages {
		if NormalizeRoute(pages[i].Path) != target {
			continue
		}
		if i > 0 {
			p := pages[i-1]
			prev = &p
		}
		if i+1 < len(pages) {
			n := pages[i+1]
			next = &n
		}
		return prev, next
	}
	return nil, nil
}

// SourceFile maps a route to the markdown file the framework builds it from,
// relative to the docs directory.
func SourceFile(route string) string {
	r := NormalizeRoute(route)
	if strings.HasSuffix(r, "/") {
		return strings.TrimPrefix(r+"README.md", "/")
	}
	return strings.TrimPrefix(r+".md", "/")
}

// DefaultDocsBranch is the branch edit links point at when docsBranch is unset.
const DefaultDocsBranch = "master"

// EditLink returns the "edit this page" URL for route, or "" when edit links
// are disabled or no repository is configured. source overrides the file
// path derived from the route.
func (s *Site) EditLink(route, source string) string {
	t := s.Theme
	if !t.EditLinks {
		return ""
	}
	repo := t.DocsRepo
	if repo == "" {
		repo = t.Repo
	}
	if repo == "" {
		return ""
	}
	branch := t.DocsBranch
	if branch == "" {
		branch = DefaultDocsBranch
	}
	if source == "" {
		source = SourceFile(route)
	}
	file := strings.TrimPrefix(source, "/")
	if dir := strings.Trim(t.DocsDir, "/"); dir != "" {
		file = dir + "/" + file
	}

	base := repo
	if !IsExternal(repo) {
		base = "https://github.com/" + repo
	}
	base = strings.TrimSuffix(base, "/")

	switch {
	case strings.Contains(base, "bitbucket.org"):
		return base + "/src/" + branch + "/" + file + "?mode=edit&spa=0&at=" + branch + "&fileviewer=file-view-default"
	case strings.Contains(base, "gitlab.com"):
		return base + "/-/edit/" + branch + "/" + file
	default:
		return base + "/edit/" + branch + "/" + file
	}
}
