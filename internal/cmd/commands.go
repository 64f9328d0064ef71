package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd/base"
	"github.com/hashicorp-forge/cosmosrest/internal/cmd/commands/create"
	"github.com/hashicorp-forge/cosmosrest/internal/cmd/commands/get"
	"github.com/hashicorp-forge/cosmosrest/internal/cmd/commands/list"
	"github.com/hashicorp-forge/cosmosrest/internal/cmd/commands/operator"
	"github.com/hashicorp-forge/cosmosrest/internal/cmd/commands/query"
	"github.com/hashicorp-forge/cosmosrest/internal/cmd/commands/version"
)

// Commands is the mapping of all available cosmosctl commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"create": func() (cli.Command, error) {
			return &create.Command{Command: b}, nil
		},
		"get": func() (cli.Command, error) {
			return &get.Command{Command: b}, nil
		},
		"list": func() (cli.Command, error) {
			return &list.Command{Command: b}, nil
		},
		"operator": func() (cli.Command, error) {
			return &operator.Command{Command: b}, nil
		},
		"operator sign": func() (cli.Command, error) {
			return &operator.SignCommand{Command: b}, nil
		},
		"query": func() (cli.Command, error) {
			return &query.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
