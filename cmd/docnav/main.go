package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnav/cmd/docnav/commands"
	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("docnav"),
		kong.Description("Navigation model, validator and API for a versioned documentation site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			parser.FatalIfErrorf(err)
		}
		derrors.NewCLIErrorAdapter(cli.Verbose, cli.Logger()).HandleError(err)
		return
	}

	err = ctx.Run(&commands.Global{Logger: cli.Logger(), Out: os.Stdout}, cli)
	derrors.NewCLIErrorAdapter(cli.Verbose, cli.Logger()).HandleError(err)
}
