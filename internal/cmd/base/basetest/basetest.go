// Package basetest provides helpers for testing cosmosctl commands against a
// fake account endpoint.
package basetest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd/base"
)

// Key is the well-known emulator account key.
const Key = "C2y6yDjf5/R+ob0N8A7Cgv30VRDJIWEHLM+4QDU5DE2nQ9nDuVTqobD4b8mGGyPMbIZnqyMsEcaGQy67XIw/Jw=="

// ConfigPath is where NewCommand writes the config file.
const ConfigPath = "/etc/cosmosctl/cosmos.hcl"

// NewCommand starts a server running handler and returns a Command whose
// file system holds a config file pointing at it.
func NewCommand(t *testing.T, handler http.Handler) (*base.Command, *cli.MockUi) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ConfigPath, []byte(`
key  = "`+Key+`"
host = "`+server.URL+`"
`), 0o600))

	ui := cli.NewMockUi()
	return &base.Command{
		Log: hclog.NewNullLogger(),
		UI:  ui,
		FS:  fs,
		LookupEnv: func(string) (string, bool) {
			return "", false
		},
	}, ui
}

// ContainerArgs returns the flags selecting the orders/open container
// through the config written by NewCommand.
func ContainerArgs(extra ...string) []string {
	return append([]string{
		"-config", ConfigPath,
		"-database", "orders",
		"-container", "open",
	}, extra...)
}
