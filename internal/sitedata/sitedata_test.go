package sitedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteConstructs(t *testing.T) {
	s, err := Site()
	require.NoError(t, err)

	assert.Equal(t, "Laravel Actions", s.Title)
	assert.Equal(t, "https://actions.getlaravel.ru/", s.Domain)
	assert.Equal(t, []string{"/1.x/", "/"}, s.Theme.Sidebar.Prefixes())
	assert.Equal(t, []string{"seo", "@vuepress/search", "google-gtag"}, s.Plugins.Names())
	require.Len(t, s.Head, 1)
	assert.Equal(t, "link", s.Head[0].Name)
}

func TestRoutes(t *testing.T) {
	routes := Routes()
	assert.Len(t, routes, 16+25)
	assert.Equal(t, "/1.x/", routes[0])
	assert.Contains(t, routes, "/1.x/nested-actions")
	assert.Contains(t, routes, "/2.x/examples/get-user-profile")
}

func TestRawIsACopy(t *testing.T) {
	raw := Raw()
	raw[0] = '#'
	lit, err := Literal()
	require.NoError(t, err)
	_, ok := lit.Get("title")
	assert.True(t, ok)
}
