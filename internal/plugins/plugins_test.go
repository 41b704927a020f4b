package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/literal"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/sitedata"
)

func bundled(t *testing.T) *site.Site {
	t.Helper()
	s, err := sitedata.Site()
	require.NoError(t, err)
	return s
}

func TestBundledPluginsAreValid(t *testing.T) {
	assert.Empty(t, Check(bundled(t)))
}

func TestSEORender(t *testing.T) {
	s := bundled(t)
	opts, ok := s.Plugins.Get(NameSEO)
	require.True(t, ok)

	seo, err := DecodeSEO(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"type", "description", "image"}, seo.Fields())

	fields, err := seo.Render(s, site.Page{Path: "/2.x/installation"})
	require.NoError(t, err)
	assert.Equal(t, []literal.Field{
		{Key: "type", Value: "website"},
		{Key: "description", Value: s.Description},
		{Key: "image", Value: "https://actions.getlaravel.ru/hero2-social.jpg"},
	}, fields)
}

func TestSEOPageTemplate(t *testing.T) {
	seo, err := DecodeSEO(literal.Obj("url", "{{ .Domain }}{{ .Page.Path }}"))
	require.NoError(t, err)
	fields, err := seo.Render(&site.Site{Domain: "https://x.test"}, site.Page{Path: "/a"})
	require.NoError(t, err)
	assert.Equal(t, "https://x.test/a", fields[0].Value)
}

func TestSEORejectsBadTemplates(t *testing.T) {
	_, err := DecodeSEO(literal.Obj("title", "{{ .Title"))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryValidation))

	_, err = DecodeSEO(literal.Obj("count", 3))
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	opts, ok := bundled(t).Plugins.Get(NameSearch)
	require.True(t, ok)

	search, err := DecodeSearch(opts)
	require.NoError(t, err)
	assert.Equal(t, 6, search.MaxSuggestions)
	assert.Equal(t, "/2.x/", search.Test)
	assert.True(t, search.Indexes("/2.x/installation"))
	assert.False(t, search.Indexes("/1.x/installation"))
}

func TestSearchDefaults(t *testing.T) {
	search, err := DecodeSearch(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSearchMaxSuggestions, search.MaxSuggestions)
	assert.True(t, search.Indexes("/anything"))
}

func TestSearchRejectsBadOptions(t *testing.T) {
	_, err := DecodeSearch(literal.Obj("test", "(unclosed"))
	require.Error(t, err)

	_, err = DecodeSearch(literal.Obj("searchMaxSuggestions", 0))
	require.Error(t, err)

	_, err = DecodeSearch([]any{"x"})
	require.Error(t, err)
}

func TestGtag(t *testing.T) {
	g, err := DecodeGtag(literal.Obj("ga", "G-0RS0H38JHZ"))
	require.NoError(t, err)
	assert.Equal(t, "G-0RS0H38JHZ", g.ID)

	_, err = DecodeGtag(literal.Obj("ga", "UA-12345-1"))
	require.NoError(t, err)

	_, err = DecodeGtag(literal.Obj("ga", "nope"))
	require.Error(t, err)

	_, err = DecodeGtag(literal.Obj())
	require.Error(t, err)
}

func TestCheckSkipsUnknownPlugins(t *testing.T) {
	s, err := site.Load([]byte("plugins:\n  custom: [1, 2]\n  google-gtag: {ga: bad}\n"))
	require.NoError(t, err)
	errs := Check(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "google-gtag")
}

func TestExportRendersSEOTemplates(t *testing.T) {
	s := bundled(t)
	doc, err := Export(s)
	require.NoError(t, err)

	js, err := literal.EncodeJS(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(js), "{{")
	assert.Contains(t, string(js), "https://actions.getlaravel.ru/hero2-social.jpg")

	raw, _ := doc.Get("plugins")
	opts, _ := raw.(*literal.Object).Get(NameSEO)
	description, _ := opts.(*literal.Object).Get("description")
	assert.Equal(t, s.Description, description)

	// The site keeps its templates.
	kept, _ := s.Plugins.Get(NameSEO)
	tmpl, _ := kept.(*literal.Object).Get("description")
	assert.Equal(t, "{{ .Description }}", tmpl)
}

func TestExportRejectsPageTemplates(t *testing.T) {
	s, err := site.Construct(literal.Obj(
		"domain", "https://x.test/",
		"plugins", literal.Obj(NameSEO, literal.Obj("url", "{{ .Domain }}{{ .Page.Path }}")),
	))
	require.NoError(t, err)

	_, err = Export(s)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestExportWithoutSEO(t *testing.T) {
	s, err := site.Construct(literal.Obj("title", "Plain"))
	require.NoError(t, err)

	doc, err := Export(s)
	require.NoError(t, err)
	assert.True(t, literal.Equal(site.Serialize(s), doc))
}
