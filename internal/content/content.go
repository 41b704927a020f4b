// Package content indexes the markdown documents of a documentation source
// tree so navigation entries can be checked against what actually exists.
package content

import (
	"path"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/site"
)

// Document is one markdown page of the source tree.
type Document struct {
	Route       string `json:"route"`
	File        string `json:"file"`
	Title       string `json:"title,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Index maps routes to documents. It is read-only once built.
type Index struct {
	source string
	docs   map[string]*Document
	routes []string
}

func newIndex(source string) *Index {
	return &Index{source: source, docs: make(map[string]*Document)}
}

// Static returns an index holding exactly routes, without files or titles.
func Static(routes ...string) *Index {
	idx := newIndex("static")
	for _, r := range routes {
		route := site.NormalizeRoute(r)
		idx.add(&Document{Route: route})
	}
	idx.seal()
	return idx
}

// add keeps the first document seen for a route; README.md and index.md in the
// same directory collide and README.md wins because it sorts first.
func (i *Index) add(doc *Document) {
	if _, ok := i.docs[doc.Route]; ok {
		return
	}
	i.docs[doc.Route] = doc
	i.routes = append(i.routes, doc.Route)
}

func (i *Index) seal() {
	sort.Strings(i.routes)
}

// Source describes where the index was read from.
func (i *Index) Source() string { return i.source }

// Len returns the number of documents.
func (i *Index) Len() int { return len(i.routes) }

// Has reports whether a document exists for route. route is normalized
// first, so links with anchors or a .md suffix are accepted.
func (i *Index) Has(route string) bool {
	_, ok := i.docs[site.NormalizeRoute(route)]
	return ok
}

// Title returns the document title for route, if the document declares one.
func (i *Index) Title(route string) (string, bool) {
	doc, ok := i.docs[site.NormalizeRoute(route)]
	if !ok || doc.Title == "" {
		return "", false
	}
	return doc.Title, true
}

// Get returns the document for route.
func (i *Index) Get(route string) (Document, bool) {
	doc, ok := i.docs[site.NormalizeRoute(route)]
	if !ok {
		return Document{}, false
	}
	return *doc, true
}

// Routes returns every route in lexical order.
func (i *Index) Routes() []string {
	out := make([]string, len(i.routes))
	copy(out, i.routes)
	return out
}

// RouteFor maps a markdown file, relative to the docs root, to the route the
// framework serves it at: guide/README.md is /guide/ and guide/setup.md is
// /guide/setup.
func RouteFor(file string) string {
	return site.NormalizeRoute("/" + strings.TrimPrefix(path.Clean(file), "./"))
}

// skipDir reports directories that never hold pages: hidden directories such
// as .vuepress and installed dependencies.
func skipDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, ".") || name == "node_modules")
}

func isMarkdown(name string) bool {
	return strings.EqualFold(path.Ext(name), ".md")
}
