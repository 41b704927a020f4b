// Package sitedata bundles the navigation configuration of the Laravel Actions
// (ru) documentation site.
package sitedata

import (
	_ "embed"

	"git.home.luguber.info/inful/docnav/internal/literal"
	"git.home.luguber.info/inful/docnav/internal/site"
)

//go:embed laravel-actions.yaml
var laravelActions []byte

// Name identifies the bundled site in CLI flags and configuration.
const Name = "laravel-actions"

// Raw returns the bundled YAML document.
func Raw() []byte {
	out := make([]byte, len(laravelActions))
	copy(out, laravelActions)
	return out
}

// Literal decodes the bundled document. Each call returns a fresh tree.
func Literal() (*literal.Object, error) {
	return literal.DecodeObject(laravelActions)
}

// Site constructs the bundled site.
func Site() (*site.Site, error) {
	lit, err := Literal()
	if err != nil {
		return nil, err
	}
	return site.Construct(lit)
}

// Routes lists every route the bundled navigation points at, in sidebar order.
// It is the content index of a complete checkout of the documentation.
func Routes() []string {
	s, err := Site()
	if err != nil {
		panic("sitedata: bundled site does not construct: " + err.Error())
	}
	var routes []string
	for _, section := range s.Theme.Sidebar.Sections() {
		for _, p := range section.Pages() {
			routes = append(routes, site.NormalizeRoute(p.Path))
		}
	}
	return routes
}
