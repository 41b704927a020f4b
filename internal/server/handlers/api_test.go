package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/content"
	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
	"git.home.luguber.info/inful/docnav/internal/report"
	"git.home.luguber.info/inful/docnav/internal/server/handlers"
	"git.home.luguber.info/inful/docnav/internal/server/responses"
	"git.home.luguber.info/inful/docnav/internal/site"
	"git.home.luguber.info/inful/docnav/internal/sitedata"
)

type staticSource struct{ res *pipeline.Result }

func (s staticSource) Current() *pipeline.Result { return s.res }

type fakeHistory struct {
	runs   []report.RunSummary
	stored []*report.Run
	err    error
	limit  int
}

func (f *fakeHistory) Runs(_ context.Context, limit int) ([]report.RunSummary, error) {
	f.limit = limit
	return f.runs, f.err
}

func (f *fakeHistory) Run(_ context.Context, id string) (*report.Run, error) {
	for _, run := range f.stored {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, derrors.NotFoundError("no validation run recorded").Build()
}

func (f *fakeHistory) LatestRun(ctx context.Context) (*report.Run, error) {
	if len(f.stored) == 0 {
		return f.Run(ctx, "")
	}
	return f.stored[0], nil
}

type resolveRecorder struct {
	metrics.NoopRecorder
	resolved []string
}

func (r *resolveRecorder) IncResolve(prefix string, found bool) {
	if !found {
		prefix = "none"
	}
	r.resolved = append(r.resolved, prefix)
}

func loaded(t *testing.T) *pipeline.Result {
	t.Helper()
	s, err := sitedata.Site()
	require.NoError(t, err)
	idx := content.Static(sitedata.Routes()...)
	return &pipeline.Result{
		Site:  s,
		Index: idx,
		Run:   report.NewRun(sitedata.Name, idx.Source(), time.Now(), site.Validate(s, idx)),
	}
}

func newAPI(t *testing.T) (*handlers.APIHandlers, *resolveRecorder) {
	t.Helper()
	rec := &resolveRecorder{}
	return handlers.NewAPIHandlers(staticSource{loaded(t)}, nil, rec), rec
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSidebarResolvesVersionSection(t *testing.T) {
	api, metricsRec := newAPI(t)

	rec := get(api.HandleSidebar, "/api/sidebar?path=/1.x/installation")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[responses.SidebarResponse](t, rec)
	assert.Equal(t, "/1.x/", body.Prefix)
	require.Len(t, body.Items, 3)
	assert.Equal(t, "group", body.Items[0].Kind)
	assert.Equal(t, "Getting Started", body.Items[0].Label)
	require.NotNil(t, body.Items[0].Collapsable)
	assert.False(t, *body.Items[0].Collapsable)
	first := body.Items[0].Children[0]
	assert.Equal(t, "labeled-leaf", first.Kind)
	assert.Equal(t, "Introduction", first.Label)

	rec = get(api.HandleSidebar, "/api/sidebar?path=/2.x/examples/get-user-profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", decode[responses.SidebarResponse](t, rec).Prefix)

	assert.Equal(t, []string{"/1.x/", "/"}, metricsRec.resolved)
}

func TestSidebarRequiresPath(t *testing.T) {
	api, _ := newAPI(t)
	rec := get(api.HandleSidebar, "/api/sidebar")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing path")
}

func TestSidebarNoSection(t *testing.T) {
	sidebar, err := site.NewSidebarConfig(site.VersionSection{Prefix: "/1.x/", Items: []site.NavItem{site.Leaf{Path: "/1.x/"}}})
	require.NoError(t, err)
	s := &site.Site{Theme: site.ThemeConfig{Sidebar: sidebar}}
	res := &pipeline.Result{Site: s, Run: report.NewRun("t", "none", time.Now(), nil)}
	rec := &resolveRecorder{}
	api := handlers.NewAPIHandlers(staticSource{res}, nil, rec)

	resp := get(api.HandleSidebar, "/api/sidebar?path=/2.x/upgrade")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, []string{"none"}, rec.resolved)
}

func TestRejectsNonGET(t *testing.T) {
	api, _ := newAPI(t)
	rec := httptest.NewRecorder()
	api.HandleSite(rec, httptest.NewRequest(http.MethodPost, "/api/site", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnavailableBeforeFirstLoad(t *testing.T) {
	api := handlers.NewAPIHandlers(staticSource{}, nil, nil)
	rec := get(api.HandleIssues, "/api/issues")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSiteFormats(t *testing.T) {
	api, _ := newAPI(t)

	rec := get(api.HandleSite, "/api/site")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Laravel Actions", body["title"])
	theme, ok := body["themeConfig"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, theme["sidebar"], "/1.x/")

	rec = get(api.HandleSite, "/api/site?format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "yaml")
	reloaded, err := site.Load(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Theme.Sidebar.Len())

	rec = get(api.HandleSite, "/api/site?format=js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")
	assert.NotContains(t, rec.Body.String(), "{{")

	rec = get(api.HandleSite, "/api/site?format=yaml&raw=true")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "{{ .Description }}")

	rec = get(api.HandleSite, "/api/site?format=xml")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNeighbors(t *testing.T) {
	api, _ := newAPI(t)
	rec := get(api.HandleNeighbors, "/api/neighbors?path=/1.x/installation")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[responses.NeighborsResponse](t, rec)
	require.NotNil(t, body.Prev)
	assert.Equal(t, "/1.x/", body.Prev.Path)
	assert.Equal(t, "Introduction", body.Prev.Label)
	require.NotNil(t, body.Next)
	assert.Equal(t, "/1.x/basic-usage", body.Next.Path)

	rec = get(api.HandleNeighbors, "/api/neighbors?path=/")
	body = decode[responses.NeighborsResponse](t, rec)
	assert.Nil(t, body.Prev)
	require.NotNil(t, body.Next)
	assert.Equal(t, "/2.x/installation", body.Next.Path)
}

func TestEditLink(t *testing.T) {
	api, _ := newAPI(t)
	rec := get(api.HandleEditLink, "/api/edit-link?path=/1.x/installation")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[responses.EditLinkResponse](t, rec)
	assert.Equal(t, "https://github.com/laravel-ru/laravel-actions-docs/edit/main-ru/1.x/installation.md", body.URL)
	assert.Equal(t, "Редактировать эту страницу", body.Text)
}

func TestEditLinkDisabled(t *testing.T) {
	res := loaded(t)
	s := *res.Site
	s.Theme.EditLinks = false
	res.Site = &s
	api := handlers.NewAPIHandlers(staticSource{res}, nil, nil)
	rec := get(api.HandleEditLink, "/api/edit-link?path=/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageRendersPluginData(t *testing.T) {
	api, _ := newAPI(t)

	rec := get(api.HandlePage, "/api/page?path=/2.x/installation")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[responses.PageResponse](t, rec)
	assert.Equal(t, "/", body.Prefix)
	assert.True(t, body.Searchable)
	assert.Equal(t, "website", body.Meta["type"])
	assert.Equal(t, "Запускайте свои простые классы PHP как угодно.", body.Meta["description"])
	assert.Equal(t, "https://actions.getlaravel.ru/hero2-social.jpg", body.Meta["image"])

	rec = get(api.HandlePage, "/api/page?path=/1.x/installation")
	body = decode[responses.PageResponse](t, rec)
	assert.Equal(t, "/1.x/", body.Prefix)
	assert.False(t, body.Searchable)

	rec = get(api.HandlePage, "/api/page?path=/1.x/")
	body = decode[responses.PageResponse](t, rec)
	assert.Equal(t, "Introduction", body.Title)
}

func TestIssues(t *testing.T) {
	api, _ := newAPI(t)
	rec := get(api.HandleIssues, "/api/issues")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[responses.IssuesResponse](t, rec)
	assert.Equal(t, sitedata.Name, body.Site)
	assert.Equal(t, 0, body.Count)
	assert.NotNil(t, body.Issues)
	assert.NotEmpty(t, body.RunID)
}

func TestRuns(t *testing.T) {
	history := &fakeHistory{runs: []report.RunSummary{{ID: "r1", IssueCount: 2}}}
	api := handlers.NewAPIHandlers(staticSource{loaded(t)}, history, nil)

	rec := get(api.HandleRuns, "/api/runs?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	runs := decode[[]report.RunSummary](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].ID)
	assert.Equal(t, 5, history.limit)

	assert.Equal(t, http.StatusBadRequest, get(api.HandleRuns, "/api/runs?limit=zero").Code)

	history.err = errors.New("disk gone")
	assert.Equal(t, http.StatusInternalServerError, get(api.HandleRuns, "/api/runs").Code)
}

func TestRunByID(t *testing.T) {
	stored := report.NewRun("laravel-actions", "dir", time.Now(), []site.ValidationIssue{
		{Kind: site.IssueUnresolvedPath, Path: "/1.x/nested-actions"},
	})
	api := handlers.NewAPIHandlers(staticSource{loaded(t)}, &fakeHistory{stored: []*report.Run{stored}}, nil)

	rec := get(api.HandleRuns, "/api/runs?id="+stored.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[responses.IssuesResponse](t, rec)
	assert.Equal(t, stored.ID, body.RunID)
	assert.True(t, body.Stored)
	require.Len(t, body.Issues, 1)
	assert.Equal(t, "/1.x/nested-actions", body.Issues[0].Path)

	assert.Equal(t, http.StatusNotFound, get(api.HandleRuns, "/api/runs?id=missing").Code)
}

func TestIssuesFallBackToHistoryBeforeFirstLoad(t *testing.T) {
	stored := report.NewRun("laravel-actions", "dir", time.Now(), nil)
	history := &fakeHistory{stored: []*report.Run{stored}}
	api := handlers.NewAPIHandlers(staticSource{}, history, nil)

	rec := get(api.HandleIssues, "/api/issues")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[responses.IssuesResponse](t, rec)
	assert.Equal(t, stored.ID, body.RunID)
	assert.True(t, body.Stored)
	assert.NotNil(t, body.Issues)

	history.stored = nil
	assert.Equal(t, http.StatusServiceUnavailable, get(api.HandleIssues, "/api/issues").Code)
}

func TestPageLanguage(t *testing.T) {
	res := loaded(t)
	s := *res.Site
	s.Lang = "ru-RU"
	res.Site = &s
	api := handlers.NewAPIHandlers(staticSource{res}, nil, nil)

	body := decode[responses.PageResponse](t, get(api.HandlePage, "/api/page?path=/"))
	assert.Equal(t, "ru-RU", body.Lang)

	api, _ = newAPI(t)
	body = decode[responses.PageResponse](t, get(api.HandlePage, "/api/page?path=/"))
	assert.Empty(t, body.Lang)
}

func TestRunsWithoutHistory(t *testing.T) {
	api, _ := newAPI(t)
	assert.Equal(t, http.StatusNotFound, get(api.HandleRuns, "/api/runs").Code)
}

func TestHealthCheck(t *testing.T) {
	h := handlers.NewMonitoringHandlers(staticSource{loaded(t)})
	rec := get(h.HandleHealthCheck, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[responses.HealthResponse](t, rec)
	assert.Equal(t, "healthy", body.Status)
	assert.NotEmpty(t, body.RunID)

	h = handlers.NewMonitoringHandlers(staticSource{})
	rec = get(h.HandleHealthCheck, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "starting", decode[responses.HealthResponse](t, rec).Status)
}
