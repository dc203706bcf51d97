package main

import (
	"context"

	"github.com/alecthomas/kong"
)

var version = "dev"

type cli struct {
	globals

	Serve   serveCmd   `cmd:"" help:"Serve the builder page, JSON API and WebSocket updates."`
	TUI     tuiCmd     `cmd:"" name:"tui" help:"Run the terminal builder."`
	Layouts layoutsCmd `cmd:"" help:"List, export and import layouts through the persistence API."`
	Parse   parseCmd   `cmd:"" help:"Parse chart or table text the way the element editor does."`
}

type globals struct {
	Config  string           `short:"c" type:"path" env:"BUILDER_CONFIG" help:"Path to a YAML config file."`
	Version kong.VersionFlag `help:"Print the version and exit."`
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("builder"),
		kong.Description("Drag-and-drop dashboard builder."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background(), &c.globals)
	ctx.FatalIfErrorf(err)
}
