package create

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd/base"
	"github.com/hashicorp-forge/cosmosrest/pkg/docid"
)

type Command struct {
	*base.Command

	flagContainer    base.ContainerFlags
	flagFile         string
	flagPartitionKey string
	flagGenerateID   bool
	flagUpsert       bool
}

func (c *Command) Synopsis() string {
	return "Create a document from a JSON file"
}

func (c *Command) Help() string {
	return `Usage: cosmosctl create [options]

  Creates a document from a JSON file. The document must carry an "id"
  property unless -generate-id is set. With -upsert, an existing document
  with the same id is replaced instead of reported as a conflict.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create", flag.ContinueOnError))

	f.AddContainerFlags(&c.flagContainer)
	f.StringVar(
		&c.flagFile, "file", "", "(Required) Path to the JSON document.",
	)
	f.StringVar(
		&c.flagPartitionKey, "partition-key", "",
		"(Required) Partition key value. JSON scalars are decoded, anything else is a string.",
	)
	f.BoolVar(
		&c.flagGenerateID, "generate-id", false,
		"Assign a random UUID when the document has no id.",
	)
	f.BoolVar(
		&c.flagUpsert, "upsert", false,
		"Replace the document if one with the same id exists.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	logger, ui := c.Log, c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if c.flagFile == "" {
		ui.Error("file flag is required")
		return 1
	}
	if c.flagPartitionKey == "" {
		ui.Error("partition-key flag is required")
		return 1
	}

	data, err := afero.ReadFile(c.FS, c.flagFile)
	if err != nil {
		ui.Error(fmt.Sprintf("error reading document: %v", err))
		return 1
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		ui.Error(fmt.Sprintf("error decoding document %s: %v", c.flagFile, err))
		return 1
	}
	if doc == nil {
		ui.Error(fmt.Sprintf("document %s is not a JSON object", c.flagFile))
		return 1
	}

	if c.flagGenerateID {
		if _, err := docid.IDOf(doc); err != nil {
			id := docid.EnsureID(doc)
			logger.Info("generated document id", "id", id)
		}
	}

	session, err := c.Open(c.flagContainer)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	defer session.Close()

	write := session.Client.CreateDocument
	if c.flagUpsert {
		write = session.Client.UpsertDocument
	}

	outcome, result, err := write(context.Background(), session.Container, doc, base.ParseValue(c.flagPartitionKey))
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	if code := c.Report("create", outcome, result); code != 0 {
		return code
	}

	if err := c.Print(session.Format, result.Body); err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}

