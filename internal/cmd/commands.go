package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/xnat/docsync/internal/cmd/base"
	"github.com/xnat/docsync/internal/cmd/commands/publish"
	"github.com/xnat/docsync/internal/cmd/commands/render"
	"github.com/xnat/docsync/internal/cmd/commands/rewrite"
	"github.com/xnat/docsync/internal/cmd/commands/rules"
	"github.com/xnat/docsync/internal/cmd/commands/version"
)

// Commands is the mapping of all available docsync commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"publish": func() (cli.Command, error) {
			return &publish.Command{Command: b}, nil
		},
		"render": func() (cli.Command, error) {
			return &render.Command{Command: b}, nil
		},
		"rewrite": func() (cli.Command, error) {
			return &rewrite.Command{Command: b}, nil
		},
		"rules": func() (cli.Command, error) {
			return &rules.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
