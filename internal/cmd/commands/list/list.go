package list

import (
	"context"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd/base"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos"
)

type Command struct {
	*base.Command

	flagContainer    base.ContainerFlags
	flagMaxItems     int
	flagContinuation string
	flagAll          bool
}

func (c *Command) Synopsis() string {
	return "List the documents of a container"
}

func (c *Command) Help() string {
	return `Usage: cosmosctl list [options]

  Lists one page of documents. When more pages exist, the continuation token
  is printed to stderr; pass it back with -continuation to read the next page,
  or use -all to follow every page.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))

	f.AddContainerFlags(&c.flagContainer)
	f.IntVar(
		&c.flagMaxItems, "max-items", cosmos.DefaultMaxItemCount,
		"Page size.",
	)
	f.StringVar(
		&c.flagContinuation, "continuation", "",
		"Continuation token returned by a previous call.",
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

	var token *cosmos.ContinuationToken
	if c.flagContinuation != "" {
		var err error
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
			return session.Client.GetDocuments(ctx, session.Container, cosmos.ListOptions{
				MaxItemCount: c.flagMaxItems,
				Continuation: token,
			})
		})
}
