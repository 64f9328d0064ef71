package query

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd/base"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos"
)

type Command struct {
	*base.Command

	flagContainer      base.ContainerFlags
	flagParams         []string
	flagMaxItems       int
	flagContinuation   string
	flagCrossPartition bool
	flagAll            bool
}

func (c *Command) Synopsis() string {
	return "Run a SQL query against a container"
}

func (c *Command) Help() string {
	return `Usage: cosmosctl query [options] "SELECT * FROM c WHERE c.status = @status"

  Runs a parameterized SQL query. Parameters are given as -param name=value
  and referenced in the query as @name. Values that parse as JSON scalars are
  sent as such; anything else is sent as a string.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("query", flag.ContinueOnError))

	f.AddContainerFlags(&c.flagContainer)
	f.StringSliceVar(
		&c.flagParams, "param", "Query parameter as name=value. May be repeated.",
	)
	f.IntVar(
		&c.flagMaxItems, "max-items", 0,
		"Page size. The service default applies when unset.",
	)
	f.StringVar(
		&c.flagContinuation, "continuation", "",
		"Continuation token returned by a previous call.",
	)
	f.BoolVar(
		&c.flagCrossPartition, "cross-partition", false,
		"Allow the query to span partitions.",
	)
	f.BoolVar(
		&c.flagAll, "all", false,
		"Follow continuation tokens until every page has been read.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if flags.NArg() != 1 {
		ui.Error("exactly one query argument is required")
		return 1
	}
	text := flags.Arg(0)

	params, err := parseParams(c.flagParams)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	var token *cosmos.ContinuationToken
	if c.flagContinuation != "" {
		if token, err = cosmos.ParseContinuationToken(c.flagContinuation); err != nil {
			ui.Error(fmt.Sprintf("invalid continuation: %v", err))
			return 1
		}
	}

	session, err := c.Open(c.flagContainer)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	defer session.Close()

	return base.Paginate(c.Command, session, token, c.flagAll,
		func(ctx context.Context, token *cosmos.ContinuationToken) (cosmos.Outcome, *cosmos.Result, error) {
			return session.Client.Query(ctx, session.Container, text, params, cosmos.QueryOptions{
				MaxItemCount:         c.flagMaxItems,
				Continuation:         token,
				EnableCrossPartition: c.flagCrossPartition,
			})
		})
}

func parseParams(raw []string) ([]cosmos.QueryParam, error) {
	params := make([]cosmos.QueryParam, 0, len(raw))
	for _, p := range raw {
		name, value, ok := strings.Cut(p, "=")
		name = strings.TrimPrefix(strings.TrimSpace(name), "@")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid param %q (want name=value)", p)
		}
		params = append(params, cosmos.QueryParam{Name: name, Value: base.ParseValue(value)})
	}
	return params, nil
}
