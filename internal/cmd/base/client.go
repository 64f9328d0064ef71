package base

import (
	"encoding/json"
	"fmt"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/hashicorp-forge/cosmosrest/internal/version"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos/config"
)

// ContainerFlags are shared by every command that talks to a container.
type ContainerFlags struct {
	Config    string
	Database  string
	Container string
	Format    string
}

// AddContainerFlags registers the shared flags on f.
func (f *FlagSet) AddContainerFlags(cf *ContainerFlags) {
	f.StringVar(
		&cf.Config, "config", "",
		"Path to a .hcl, .json or .yaml config file. Key and host fall back to "+
			"[COSMOS_DB_KEY] and [COSMOS_DB_HOST].",
	)
	f.StringVar(
		&cf.Database, "database", "", "(Required) Database name",
	)
	f.StringVar(
		&cf.Container, "container", "", "(Required) Container (collection) name",
	)
	f.StringVar(
		&cf.Format, "format", FormatJSON, "Output format (json, yaml)",
	)
}

// Session is an open connection to a single container.
type Session struct {
	Client    *cosmos.Client
	Container cosmos.Container
	Format    string

	closeFn func()
}

// Close releases the resources held by the session.
func (s *Session) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// Open loads the configuration named by cf and creates a client for the
// selected container.
func (c *Command) Open(cf ContainerFlags) (*Session, error) {
	if err := validateFormat(cf.Format); err != nil {
		return nil, err
	}

	container, err := cosmos.NewContainer(cf.Database, cf.Container)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(c.FS, cf.Config, c.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	if cfg.Tracing {
		tracer.Start(
			tracer.WithService("cosmosctl"),
			tracer.WithServiceVersion(version.Version),
			tracer.WithLogStartup(false),
		)
	}

	client, err := cosmos.NewFromConfig(cfg, c.Log)
	if err != nil {
		if cfg.Tracing {
			tracer.Stop()
		}
		return nil, fmt.Errorf("error creating client: %w", err)
	}

	return &Session{
		Client:    client,
		Container: container,
		Format:    cf.Format,
		closeFn: func() {
			if cfg.Tracing {
				tracer.Stop()
			}
		},
	}, nil
}

// Report prints a non-OK outcome and returns the command exit code for it.
func (c *Command) Report(op string, outcome cosmos.Outcome, result *cosmos.Result) int {
	if outcome == cosmos.OutcomeOK {
		return 0
	}

	msg := fmt.Sprintf("%s: %s", op, outcome)
	if result != nil {
		if m, ok := result.Body["message"].(string); ok && m != "" {
			msg += ": " + m
		}
	}
	c.UI.Error(msg)
	return 1
}

// ParseValue interprets s as a JSON scalar when possible and as a plain
// string otherwise, so that -partition-key 42 selects the number 42 and
// -partition-key '"42"' the string "42".
func ParseValue(s string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	switch v.(type) {
	case string, float64, bool:
		return v
	}
	return s
}
