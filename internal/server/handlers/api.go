package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/literal"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
	"git.home.luguber.info/inful/docnav/internal/plugins"
	"git.home.luguber.info/inful/docnav/internal/report"
	"git.home.luguber.info/inful/docnav/internal/server/responses"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// Source provides the current site snapshot.
type Source interface {
	Current() *pipeline.Result
}

// History reads stored validation runs.
type History interface {
	Runs(ctx context.Context, limit int) ([]report.RunSummary, error)
	Run(ctx context.Context, id string) (*report.Run, error)
	LatestRun(ctx context.Context) (*report.Run, error)
}

// APIHandlers serves the navigation API.
type APIHandlers struct {
	source       Source
	history      History
	recorder     metrics.Recorder
	errorAdapter *errors.HTTPErrorAdapter
}

// NewAPIHandlers creates the API handlers. history and recorder may be nil.
func NewAPIHandlers(source Source, history History, recorder metrics.Recorder) *APIHandlers {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &APIHandlers{
		source:       source,
		history:      history,
		recorder:     recorder,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

func (h *APIHandlers) current() (*pipeline.Result, error) {
	res := h.source.Current()
	if res == nil {
		return nil, errors.NewError(errors.CategoryRuntime, "site not loaded").Retryable().Build()
	}
	return res, nil
}

// snapshot runs the shared request checks and returns the current result.
func (h *APIHandlers) snapshot(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	if err := requireGET(r); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return nil, false
	}
	res, err := h.current()
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return nil, false
	}
	return res, true
}

func (h *APIHandlers) respond(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSONPretty(w, r, http.StatusOK, v); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write response").Build())
	}
}

// HandleSite returns the framework configuration of the current site. The
// format query parameter selects json (default), yaml or js; raw=true keeps
// plugin templates unrendered.
func (h *APIHandlers) HandleSite(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	doc := site.Serialize(res.Site)
	if raw, _ := strconv.ParseBool(r.URL.Query().Get("raw")); !raw {
		exported, err := plugins.Export(res.Site)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		doc = exported
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		h.respond(w, r, doc)
		return
	case "yaml":
		body, err = literal.EncodeYAML(doc)
		contentType = "application/yaml; charset=utf-8"
	case "js":
		body, err = literal.EncodeJS(doc)
		contentType = "text/javascript; charset=utf-8"
	default:
		h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("unsupported format").
			WithContext("format", format).
			WithContext("allowed", "json, yaml, js").
			Build())
		return
	}
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to encode site").Build())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// resolve maps the path query parameter to its section.
func (h *APIHandlers) resolve(w http.ResponseWriter, r *http.Request) (*pipeline.Result, string, *site.VersionSection, bool) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return nil, "", nil, false
	}
	p, err := pathParam(r)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return nil, "", nil, false
	}
	section, found := res.Site.Resolve(p)
	if !found {
		h.recorder.IncResolve("", false)
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("no sidebar section matches path").
			WithContext("path", p).
			Build())
		return nil, "", nil, false
	}
	h.recorder.IncResolve(section.Prefix, true)
	return res, p, section, true
}

// HandleSidebar returns the sidebar section shown for ?path=.
func (h *APIHandlers) HandleSidebar(w http.ResponseWriter, r *http.Request) {
	res, p, section, ok := h.resolve(w, r)
	if !ok {
		return
	}
	h.respond(w, r, &responses.SidebarResponse{
		Path:   p,
		Route:  site.NormalizeRoute(p),
		Prefix: section.Prefix,
		Items:  navItems(section.Items, res.Titles()),
	})
}

func navItems(items []site.NavItem, titles site.Titler) []responses.NavItem {
	out := make([]responses.NavItem, 0, len(items))
	for _, item := range items {
		entry := responses.NavItem{Kind: item.Kind().String(), Label: site.Label(item, titles)}
		if p, ok := site.ItemPath(item); ok {
			entry.Path = p
		}
		if g, ok := item.(site.Group); ok {
			collapsable := g.Collapsable
			entry.Collapsable = &collapsable
			entry.Children = navItems(g.Children, titles)
		}
		out = append(out, entry)
	}
	return out
}

// HandleNeighbors returns the previous and next pages around ?path=.
func (h *APIHandlers) HandleNeighbors(w http.ResponseWriter, r *http.Request) {
	res, p, _, ok := h.resolve(w, r)
	if !ok {
		return
	}
	prev, next := res.Site.Neighbors(p)
	h.respond(w, r, &responses.NeighborsResponse{
		Path: p,
		Prev: pageRef(prev, res.Titles()),
		Next: pageRef(next, res.Titles()),
	})
}

func pageRef(p *site.Page, titles site.Titler) *responses.PageRef {
	if p == nil {
		return nil
	}
	var item site.NavItem = site.Leaf{Path: p.Path}
	if p.Label != "" {
		item = site.LabeledLeaf{Path: p.Path, Label: p.Label}
	}
	return &responses.PageRef{Path: p.Path, Label: site.Label(item, titles)}
}

// HandleEditLink returns the edit URL for ?path=.
func (h *APIHandlers) HandleEditLink(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	p, err := pathParam(r)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	var source string
	if res.Index != nil {
		if doc, found := res.Index.Get(p); found {
			source = doc.File
		}
	}
	link := res.Site.EditLink(p, source)
	if link == "" {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("edit links are not enabled").
			WithContext("path", p).
			Build())
		return
	}
	h.respond(w, r, &responses.EditLinkResponse{Path: p, URL: link, Text: res.Site.Theme.EditLinkText})
}

// HandlePage returns the page title, search inclusion and rendered seo meta
// for ?path=.
func (h *APIHandlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	p, err := pathParam(r)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	route := site.NormalizeRoute(p)
	out := &responses.PageResponse{Path: p, Route: route, Searchable: true}
	if lang := res.Site.Language(); lang != language.Und {
		out.Lang = lang.String()
	}

	page := site.Page{Path: route}
	if section, found := res.Site.Resolve(route); found {
		out.Prefix = section.Prefix
		for _, candidate := range section.Pages() {
			if site.NormalizeRoute(candidate.Path) == route {
				page = candidate
				break
			}
		}
	}
	if titles := res.Titles(); titles != nil {
		if title, found := titles.Title(route); found {
			out.Title = title
		}
	}
	if out.Title == "" {
		out.Title = page.Label
	}
	if page.Label == "" {
		page.Label = out.Title
	}

	if opts, found := res.Site.Plugins.Get(plugins.NameSearch); found {
		search, err := plugins.DecodeSearch(opts)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		out.Searchable = search.Indexes(route)
	}
	if opts, found := res.Site.Plugins.Get(plugins.NameSEO); found {
		seo, err := plugins.DecodeSEO(opts)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		fields, err := seo.Render(res.Site, page)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		out.Meta = make(map[string]string, len(fields))
		for _, f := range fields {
			out.Meta[f.Key], _ = f.Value.(string)
		}
	}
	h.respond(w, r, out)
}

// HandleIssues returns the latest validation run. Until the first site
// snapshot is loaded it serves the newest stored run, if any.
func (h *APIHandlers) HandleIssues(w http.ResponseWriter, r *http.Request) {
	if err := requireGET(r); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	res, err := h.current()
	if err == nil {
		h.respond(w, r, issuesResponse(res.Run, false))
		return
	}
	if h.history != nil {
		if run, herr := h.history.LatestRun(r.Context()); herr == nil {
			h.respond(w, r, issuesResponse(run, true))
			return
		}
	}
	h.errorAdapter.WriteErrorResponse(w, r, err)
}

func issuesResponse(run *report.Run, stored bool) *responses.IssuesResponse {
	issues := run.Issues
	if issues == nil {
		issues = []site.ValidationIssue{}
	}
	return &responses.IssuesResponse{
		RunID:     run.ID,
		Site:      run.Site,
		Source:    run.Source,
		StartedAt: run.StartedAt,
		Count:     len(issues),
		Issues:    issues,
		Stored:    stored,
	}
}

// HandleRuns lists stored validation runs, newest first. ?limit= caps the
// result; ?id= returns that run with its issues instead.
func (h *APIHandlers) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if err := requireGET(r); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if h.history == nil {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("validation history is not configured").Build())
		return
	}
	if id := r.URL.Query().Get("id"); id != "" {
		run, err := h.history.Run(r.Context(), id)
		if err != nil {
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		h.respond(w, r, issuesResponse(run, true))
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("limit must be a positive integer").
				WithContext("limit", v).
				Build())
			return
		}
		limit = n
	}
	runs, err := h.history.Runs(r.Context(), limit)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if runs == nil {
		runs = []report.RunSummary{}
	}
	h.respond(w, r, runs)
}
