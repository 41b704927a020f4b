// Package plugins gives typed, lazily validated views over the opaque plugin
// option bags of a site. Each decoder only runs when its plugin is asked for;
// plugins without a decoder are passed through untouched.
package plugins

import (
	"fmt"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/literal"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// Plugin names with a decoder in this package.
const (
	NameSEO    = "seo"
	NameSearch = "@vuepress/search"
	NameGtag   = "google-gtag"
)

// Known returns the plugin names this package can decode.
func Known() []string {
	return []string{NameSEO, NameSearch, NameGtag}
}

// Check decodes every known plugin configured on s and returns one error per
// plugin whose options are invalid. Unknown plugins are skipped.
func Check(s *site.Site) []error {
	var errs []error
	for _, p := range s.Plugins.All() {
		var err error
		switch p.Name {
		case NameSEO:
			_, err = DecodeSEO(p.Options)
		case NameSearch:
			_, err = DecodeSearch(p.Options)
		case NameGtag:
			_, err = DecodeGtag(p.Options)
		default:
			continue
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func optionsError(plugin, format string, args ...any) error {
	return derrors.ValidationError(fmt.Sprintf("plugin %s: %s", plugin, fmt.Sprintf(format, args...))).
		WithContext("plugin", plugin).
		Build()
}

func optionsObject(plugin string, opts any) (*literal.Object, error) {
	switch t := opts.(type) {
	case nil:
		return &literal.Object{}, nil
	case *literal.Object:
		return t, nil
	default:
		return nil, optionsError(plugin, "options must be an object, got %s", literal.TypeName(opts))
	}
}
