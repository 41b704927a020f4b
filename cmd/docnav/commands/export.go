package commands

import (
	"log/slog"
	"os"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/literal"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/plugins"
	"git.home.luguber.info/inful/docnav/internal/site"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	SiteFlag `embed:""`

	Format string `help:"Output format" enum:"json,yaml,js" default:"json"`
	Out    string `short:"o" help:"Write to this file instead of stdout" type:"path"`
	Raw    bool   `help:"Keep plugin templates unrendered, producing a docnav site file instead of framework configuration"`
}

func (e *ExportCmd) Run(g *Global, root *CLI) error {
	s, err := loadSite(root, e.SiteFlag)
	if err != nil {
		return err
	}
	doc := site.Serialize(s)
	if !e.Raw {
		if doc, err = plugins.Export(s); err != nil {
			return err
		}
	}

	var data []byte
	switch e.Format {
	case "yaml":
		data, err = literal.EncodeYAML(doc)
	case "js":
		data, err = literal.EncodeJS(doc)
	default:
		data, err = literal.EncodeJSON(doc, "  ")
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode site").
			WithContext("format", e.Format).
			Build()
	}

	if e.Out == "" {
		_, err = g.out().Write(data)
		return err
	}
	if err := os.WriteFile(e.Out, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write export").
			WithContext("file", e.Out).
			Build()
	}
	root.Logger().Info("Exported site configuration", logfields.File(e.Out), slog.String("format", e.Format))
	return nil
}
