package base

import (
	"context"
	"fmt"

	"github.com/hashicorp-forge/cosmosrest/pkg/cosmos"
)

// PageFunc reads the page that starts at token.
type PageFunc func(ctx context.Context, token *cosmos.ContinuationToken) (cosmos.Outcome, *cosmos.Result, error)

// Paginate prints the documents of the page at token and, when all is set,
// of every following page. Without all, the continuation of the last page
// read is written to the error stream so it can be passed back. It returns
// the command exit code.
func Paginate(c *Command, s *Session, token *cosmos.ContinuationToken, all bool, next PageFunc) int {
	ctx := context.Background()

	var (
		docs  []map[string]interface{}
		pages int
	)
	for {
		outcome, result, err := next(ctx, token)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		if code := c.Report("page", outcome, result); code != 0 {
			return code
		}

		pages++
		docs = append(docs, result.Documents()...)
		token = result.Properties.Continuation

		c.Log.Debug("read page",
			"page", pages,
			"count", result.Count,
			"request_charge", result.Properties.RequestCharge,
		)

		if !all || !result.HasMore() {
			break
		}
	}

	if docs == nil {
		docs = []map[string]interface{}{}
	}
	if err := c.Print(s.Format, docs); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if token != nil {
		encoded, err := token.Encode()
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		c.UI.Warn(fmt.Sprintf("continuation: %s", encoded))
	}
	return 0
}
