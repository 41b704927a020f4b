package plugins

import (
	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/literal"
	"git.home.luguber.info/inful/docnav/internal/site"
)

const pluginsKey = "plugins"

// Export returns the framework configuration for s. Unlike site.Serialize,
// the seo templates are rendered against the site, so the framework receives
// plain values. A seo template that reads .Page cannot be exported this way.
func Export(s *site.Site) (*literal.Object, error) {
	doc := site.Serialize(s)
	opts, ok := s.Plugins.Get(NameSEO)
	if !ok {
		return doc, nil
	}
	seo, err := DecodeSEO(opts)
	if err != nil {
		return nil, err
	}
	fields, err := seo.RenderSite(s)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "seo options cannot be exported without a page").
			WithContext("plugin", NameSEO).
			Build()
	}
	if raw, ok := doc.Get(pluginsKey); ok {
		if bag, ok := raw.(*literal.Object); ok {
			bag.Set(NameSEO, &literal.Object{Fields: fields})
		}
	}
	return doc, nil
}
