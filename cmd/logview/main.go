package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/logview/cmd/logview/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Build   commands.BuildCmd  `cmd:"" help:"Bundle the viewer for deployment"`
		Serve   commands.ServeCmd  `cmd:"" help:"Run the development server with live reload"`
		Config  commands.ConfigCmd `cmd:"" help:"Print the resolved build configuration"`
		Init    commands.InitCmd   `cmd:"" help:"Write a project manifest with the default settings"`
		Debug   bool               `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
