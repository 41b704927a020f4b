package commands

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	SiteFlag `embed:""`

	Path string `arg:"" help:"Page path, e.g. /1.x/installation"`
}

func (r *ResolveCmd) Run(g *Global, root *CLI) error {
	s, err := loadSite(root, r.SiteFlag)
	if err != nil {
		return err
	}
	section, ok := s.Resolve(r.Path)
	if !ok {
		return errors.NotFoundError("no sidebar section matches path").
			WithContext("path", r.Path).
			Build()
	}
	if _, err := fmt.Fprintf(g.out(), "%s\n", section.Prefix); err != nil {
		return err
	}
	return writeItems(g.out(), section.Items, 1)
}

func writeItems(w io.Writer, items []site.NavItem, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, item := range items {
		var line string
		switch it := item.(type) {
		case site.Group:
			line = it.Title
			if !it.Collapsable {
				line += " (expanded)"
			}
		case site.LabeledLeaf:
			line = it.Path + "  " + it.Label
		case site.Leaf:
			line = it.Path
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, line); err != nil {
			return err
		}
		if g, ok := item.(site.Group); ok {
			if err := writeItems(w, g.Children, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// NeighborsCmd implements the 'neighbors' command.
type NeighborsCmd struct {
	SiteFlag `embed:""`

	Path string `arg:"" help:"Page path"`
}

func (n *NeighborsCmd) Run(g *Global, root *CLI) error {
	s, err := loadSite(root, n.SiteFlag)
	if err != nil {
		return err
	}
	prev, next := s.Neighbors(n.Path)
	if prev == nil && next == nil {
		return errors.NotFoundError("path is not listed in its sidebar section").
			WithContext("path", n.Path).
			Build()
	}
	if err := writeNeighbor(g.out(), "prev", prev); err != nil {
		return err
	}
	return writeNeighbor(g.out(), "next", next)
}

func writeNeighbor(w io.Writer, name string, p *site.Page) error {
	if p == nil {
		_, err := fmt.Fprintf(w, "%s: -\n", name)
		return err
	}
	label := p.Label
	if label == "" {
		label = p.Path
	}
	_, err := fmt.Fprintf(w, "%s: %s (%s)\n", name, p.Path, label)
	return err
}

// EditLinkCmd implements the 'edit-link' command.
type EditLinkCmd struct {
	SiteFlag `embed:""`

	Path   string `arg:"" help:"Page path"`
	Source string `help:"Source file relative to the docs directory; derived from the path when empty"`
}

func (e *EditLinkCmd) Run(g *Global, root *CLI) error {
	s, err := loadSite(root, e.SiteFlag)
	if err != nil {
		return err
	}
	link := s.EditLink(e.Path, e.Source)
	if link == "" {
		return errors.NotFoundError("edit links are not enabled for this site").Build()
	}
	_, err = fmt.Fprintln(g.out(), link)
	return err
}
