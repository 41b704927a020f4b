package plugins

import (
	"bytes"
	"text/template"

	"git.home.luguber.info/inful/docnav/internal/literal"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// SEO holds the seo plugin's per-field templates, in declaration order.
// Templates see the Site as dot and the current page as .Page via PageData.
type SEO struct {
	fields []seoField
}

type seoField struct {
	name string
	tmpl *template.Template
}

// PageData is what SEO templates are evaluated against.
type PageData struct {
	*site.Site
	Page site.Page
}

// DecodeSEO parses every option as a text/template.
func DecodeSEO(opts any) (*SEO, error) {
	obj, err := optionsObject(NameSEO, opts)
	if err != nil {
		return nil, err
	}
	seo := &SEO{}
	for _, f := range obj.Fields {
		text, ok := f.Value.(string)
		if !ok {
			return nil, optionsError(NameSEO, "%s must be a template string, got %s", f.Key, literal.TypeName(f.Value))
		}
		tmpl, err := template.New(f.Key).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, optionsError(NameSEO, "%s: %v", f.Key, err)
		}
		seo.fields = append(seo.fields, seoField{name: f.Key, tmpl: tmpl})
	}
	return seo, nil
}

// Fields returns the option names in order.
func (s *SEO) Fields() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.name
	}
	return out
}

// Render evaluates every template for page and returns name/value pairs in
// declaration order.
func (s *SEO) Render(st *site.Site, page site.Page) ([]literal.Field, error) {
	return s.render(PageData{Site: st, Page: page})
}

// siteData has no page; templates that read .Page fail on the nil pointer.
type siteData struct {
	*site.Site
	Page *site.Page
}

// RenderSite evaluates every template against the site alone. Templates that
// depend on the page return an error.
func (s *SEO) RenderSite(st *site.Site) ([]literal.Field, error) {
	return s.render(siteData{Site: st})
}

func (s *SEO) render(data any) ([]literal.Field, error) {
	out := make([]literal.Field, 0, len(s.fields))
	var buf bytes.Buffer
	for _, f := range s.fields {
		buf.Reset()
		if err := f.tmpl.Execute(&buf, data); err != nil {
			return nil, optionsError(NameSEO, "%s: %v", f.name, err)
		}
		out = append(out, literal.Field{Key: f.name, Value: buf.String()})
	}
	return out, nil
}
