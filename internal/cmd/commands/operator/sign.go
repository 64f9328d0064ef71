package operator

import (
	"flag"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp-forge/cosmosrest/internal/cmd/base"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos/auth"
	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos/config"
)

type SignCommand struct {
	*base.Command

	flagConfig  string
	flagVerb    string
	flagDate    string
	flagVerbose bool
}

func (c *SignCommand) Synopsis() string {
	return "Print the authorization header for a request"
}

func (c *SignCommand) Help() string {
	return `Usage: cosmosctl operator sign [options] <resource path>

  Signs a request the way the client does and prints the x-ms-date and
  Authorization headers, e.g. for use with curl:

      cosmosctl operator sign -verb GET dbs/shop/colls/orders/docs

  The account is read from the config file, or from [COSMOS_DB_KEY] and
  [COSMOS_DB_HOST].` + c.Flags().Help()
}

func (c *SignCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("sign", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to a .hcl, .json or .yaml config file",
	)
	f.StringVar(
		&c.flagVerb, "verb", "GET", "HTTP verb of the request",
	)
	f.StringVar(
		&c.flagDate, "date", "",
		"Request date in RFC 7231 format. Defaults to now.",
	)
	f.BoolVar(
		&c.flagVerbose, "verbose", false,
		"Also print the string that was signed.",
	)

	return f
}

func (c *SignCommand) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	if flags.NArg() != 1 {
		ui.Error("exactly one resource path argument is required")
		return 1
	}
	path := flags.Arg(0)

	cfg, err := config.Load(c.FS, c.flagConfig, c.LookupEnv)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	date := auth.FormatDate(time.Now())
	if c.flagDate != "" {
		t, err := time.Parse(time.RFC1123, c.flagDate)
		if err != nil {
			ui.Error(fmt.Sprintf("invalid date: %v", err))
			return 1
		}
		date = auth.FormatDate(t)
	}

	token, err := cfg.Credentials().Sign(c.flagVerb, path, date)
	if err != nil {
		ui.Error(fmt.Sprintf("error signing request: %v", err))
		return 1
	}

	if c.flagVerbose {
		resourceType, resourceLink := auth.ParseResourcePath(path)
		ui.Info(fmt.Sprintf("resource type: %q", resourceType))
		ui.Info(fmt.Sprintf("resource link: %q", resourceLink))
		ui.Info(fmt.Sprintf("payload: %q", auth.Payload(c.flagVerb, resourceType, resourceLink, date)))
	}

	u, err := url.Parse(cfg.Host)
	if err != nil {
		ui.Error(fmt.Sprintf("invalid host: %v", err))
		return 1
	}

	ui.Output("URL: " + u.JoinPath(path).String())
	ui.Output("x-ms-date: " + date)
	ui.Output("Authorization: " + token)
	return 0
}
