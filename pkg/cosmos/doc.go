// Package cosmos is a client for the Cosmos DB document REST API.
//
// Every call runs through the same pipeline: the RequestBuilder validates the
// inputs of an Operation, signs it with the account master key and assembles
// its headers and body; a Transport sends it; Classify maps the response
// status and headers to an Outcome and a normalized Result.
//
// Protocol outcomes such as OutcomeNotFound or OutcomeConflict are returned
// with a nil error. Errors are reserved for local failures: invalid input,
// an invalid key, transport failures, malformed bodies and unmapped statuses.
//
//	client, err := cosmos.New(cosmos.Options{
//		Host:        "https://myaccount.documents.azure.com:443/",
//		Credentials: auth.Credentials{Key: key},
//	})
//	if err != nil {
//		return err
//	}
//
//	orders := cosmos.MustNewContainer("shop", "orders")
//	outcome, result, err := client.GetDocument(ctx, orders, "o-1", "customer-9")
//
// Listings are paged. Pass Result.Properties.Continuation back unmodified to
// read the next page.
package cosmos
