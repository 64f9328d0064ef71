package base

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
)

// Command is embedded by every cosmosctl command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// FS is the file system config and document files are read from.
	FS afero.Fs

	// LookupEnv resolves environment fallbacks for the config.
	LookupEnv func(string) (string, bool)
}

// NewCommand returns a Command reading from the OS file system and
// environment.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log:       log,
		UI:        ui,
		FS:        afero.NewOsFs(),
		LookupEnv: os.LookupEnv,
	}
}
