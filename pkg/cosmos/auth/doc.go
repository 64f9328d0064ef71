// Package auth computes the per-request authorization token required by the
// Cosmos DB REST API.
//
// # Overview
//
// Every REST call carries an Authorization header holding an HMAC-SHA256
// signature over a canonical payload built from the request verb, the resource
// type, the resource link and the request date:
//
//	lower(verb) + "\n" + resourceType + "\n" + resourceLink + "\n" + lower(date) + "\n\n"
//
// The resource type is the last of "dbs", "colls" or "docs" found when
// scanning the resource path from its tail. The resource link is the part of
// the path preceding that keyword:
//
//	dbs/orders/colls/open/docs          -> docs, dbs/orders/colls/open
//	dbs/orders/colls/open/docs/o-1      -> docs, dbs/orders/colls/open
//	dbs/orders/colls                    -> colls, dbs/orders
//
// The signed token has the form
//
//	type=master&ver=1.0&sig=<base64 signature>
//
// and is form-encoded before it is placed in the header.
//
// # Security
//
// Keys are never logged or cached by this package. A signature binds one
// verb, one resource and one date, so tokens must be computed per request.
package auth
