package get

import (
	"context"
	"flag"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd/base"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos"
)

type Command struct {
	*base.Command

	flagContainer    base.ContainerFlags
	flagIDs          []string
	flagPartitionKey string
	flagConcurrency  int
}

func (c *Command) Synopsis() string {
	return "Read documents by id"
}

func (c *Command) Help() string {
	return `Usage: cosmosctl get [options] [id ...]

  Reads one or more documents from a container. Every id shares the same
  partition key. Documents are fetched concurrently and printed in the order
  the ids were given.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ContinueOnError))

	f.AddContainerFlags(&c.flagContainer)
	f.StringSliceVar(
		&c.flagIDs, "id", "Document id. May be repeated.",
	)
	f.StringVar(
		&c.flagPartitionKey, "partition-key", "",
		"(Required) Partition key value. JSON scalars are decoded, anything else is a string.",
	)
	f.IntVar(
		&c.flagConcurrency, "concurrency", 4,
		"Maximum number of documents fetched at once.",
	)

	return f
}

type fetched struct {
	id      string
	outcome cosmos.Outcome
	result  *cosmos.Result
}

func (c *Command) Run(args []string) int {
	logger, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	ids := append(c.flagIDs, flags.Args()...)
	if len(ids) == 0 {
		ui.Error("at least one document id is required")
		return 1
	}
	if c.flagPartitionKey == "" {
		ui.Error("partition-key flag is required")
		return 1
	}
	if c.flagConcurrency < 1 {
		ui.Error("concurrency must be at least 1")
		return 1
	}

	session, err := c.Open(c.flagContainer)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	defer session.Close()

	pk := base.ParseValue(c.flagPartitionKey)
	results := make([]fetched, len(ids))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(c.flagConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			outcome, result, err := session.Client.GetDocument(ctx, session.Container, id, pk)
			if err != nil {
				return fmt.Errorf("error reading document %q: %w", id, err)
			}
			logger.Debug("read document", "id", id, "outcome", outcome.String())
			results[i] = fetched{id: id, outcome: outcome, result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		ui.Error(err.Error())
		return 1
	}

	exitCode := 0
	for _, r := range results {
		if code := c.Report(fmt.Sprintf("document %q", r.id), r.outcome, r.result); code != 0 {
			exitCode = code
			continue
		}
		if err := c.Print(session.Format, r.result.Body); err != nil {
			ui.Error(err.Error())
			return 1
		}
	}
	return exitCode
}
