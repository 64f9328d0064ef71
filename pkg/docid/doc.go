// Package docid provides document identity for Cosmos DB documents.
//
// Every document stored in a container carries a string "id" property that is
// unique within its logical partition. Callers may hand the client any value
// as a document; docid extracts its id in three ways:
//
//  1. The value implements Identifiable.
//  2. The value is a plain map with an "id" key (see Map).
//  3. The value is a struct whose json-tagged "id" field holds a string.
//
// # Usage Examples
//
//	id, err := docid.IDOf(order)
//	if errors.Is(err, docid.ErrMissingID) {
//	    ...
//	}
//
//	// Assign a random id to a document that has none
//	doc := map[string]interface{}{"status": "open"}
//	id := docid.EnsureID(doc) // "550e8400-..."
package docid
