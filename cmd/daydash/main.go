package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/daydash/internal/cli"
	"github.com/julianstephens/daydash/internal/config"
	"github.com/julianstephens/daydash/internal/constants"
	"github.com/julianstephens/daydash/internal/errors"
	"github.com/julianstephens/daydash/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/daydash/config.yaml"`
	Debug   bool   `help:"Enable debug logging."`

	Serve     cli.ServeCmd     `cmd:"" help:"Run the dashboard API server." default:"1"`
	Summary   cli.SummaryCmd   `cmd:"" help:"Print today's dashboard."`
	Export    cli.ExportCmd    `cmd:"" help:"Export the store to SQLite or PostgreSQL."`
	Snapshots cli.SnapshotsCmd `cmd:"" help:"List SQLite snapshots."`
	Keyring   cli.KeyringCmd   `cmd:"" help:"Manage the stored PostgreSQL export connection."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal productivity dashboard backend"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:   CLI.Debug,
		LogDir:  cfg.Log.Dir,
		Console: ctx.Command() == "serve",
	}); err != nil {
		errors.Fatal(err)
	}

	appCtx, err := cli.NewContext(cfg)
	if err != nil {
		errors.Fatal(err)
	}

	errors.Fatal(ctx.Run(appCtx))
}
