// Package responses defines API response types used by the docnav HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/docnav/internal/site"
)

// NavItem is a sidebar entry. Kind is "leaf", "labeled-leaf" or "group".
type NavItem struct {
	Kind        string    `json:"kind"`
	Path        string    `json:"path,omitempty"`
	Label       string    `json:"label"`
	Collapsable *bool     `json:"collapsable,omitempty"`
	Children    []NavItem `json:"children,omitempty"`
}

// SidebarResponse is the section resolved for a request path.
type SidebarResponse struct {
	Path   string    `json:"path"`
	Route  string    `json:"route"`
	Prefix string    `json:"prefix"`
	Items  []NavItem `json:"items"`
}

// PageRef points at a neighboring page.
type PageRef struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

// NeighborsResponse lists the pages around a route in reading order.
type NeighborsResponse struct {
	Path string   `json:"path"`
	Prev *PageRef `json:"prev,omitempty"`
	Next *PageRef `json:"next,omitempty"`
}

// EditLinkResponse carries the "edit this page" URL.
type EditLinkResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Text string `json:"text,omitempty"`
}

// PageResponse combines everything a page renderer needs beyond its sidebar.
type PageResponse struct {
	Path       string            `json:"path"`
	Route      string            `json:"route"`
	Prefix     string            `json:"prefix,omitempty"`
	Title      string            `json:"title,omitempty"`
	Lang       string            `json:"lang,omitempty"`
	Searchable bool              `json:"searchable"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// IssuesResponse is a validation run. Stored marks a run read from history
// rather than the live snapshot.
type IssuesResponse struct {
	RunID     string                 `json:"run_id"`
	Site      string                 `json:"site"`
	Source    string                 `json:"source"`
	StartedAt time.Time              `json:"started_at"`
	Count     int                    `json:"count"`
	Issues    []site.ValidationIssue `json:"issues"`
	Stored    bool                   `json:"stored,omitempty"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
	RunID     string    `json:"run_id,omitempty"`
	Issues    int       `json:"issues"`
}
