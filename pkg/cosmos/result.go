package cosmos

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ContinuationToken marks where a paged listing stopped. Callers pass it back
// unmodified to fetch the next page.
//
// A token parsed from a response keeps the header value verbatim and Encode
// returns it byte for byte, so fields this package does not know survive the
// round trip. Token and Range expose the first entry for inspection; the
// service sends a JSON array of entries for cross-partition queries.
type ContinuationToken struct {
	Token string `json:"token"`
	Range Range  `json:"range"`

	raw json.RawMessage
}

// Range is the partition key range a continuation token belongs to.
type Range struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// continuationEntry mirrors the known fields of ContinuationToken without
// its JSON methods.
type continuationEntry struct {
	Token string `json:"token"`
	Range Range  `json:"range"`
}

// ParseContinuationToken decodes the JSON form of a continuation token as it
// appears in the x-ms-continuation header. Both a single object and an array
// of objects are accepted.
func ParseContinuationToken(s string) (*ContinuationToken, error) {
	var t ContinuationToken
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return nil, fmt.Errorf("failed to decode continuation token: %w", err)
	}
	t.raw = json.RawMessage(s)
	return &t, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ContinuationToken) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	var entry continuationEntry
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		return errors.New("continuation token is empty")
	case trimmed[0] == '[':
		var entries []continuationEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		if len(entries) == 0 {
			return errors.New("continuation token is an empty list")
		}
		entry = entries[0]
	default:
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return err
		}
	}

	t.Token = entry.Token
	t.Range = entry.Range
	t.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t *ContinuationToken) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	return json.Marshal(continuationEntry{Token: t.Token, Range: t.Range})
}

// Encode returns the JSON form of the token: the received header value for
// parsed tokens, the known fields otherwise.
func (t *ContinuationToken) Encode() (string, error) {
	if len(t.raw) > 0 {
		return string(t.raw), nil
	}
	data, err := json.Marshal(continuationEntry{Token: t.Token, Range: t.Range})
	if err != nil {
		return "", fmt.Errorf("failed to encode continuation token: %w", err)
	}
	return string(data), nil
}

// Properties carries the per-request telemetry reported by the service.
type Properties struct {
	// RequestCharge is the x-ms-request-charge header, verbatim.
	RequestCharge string

	// RequestDuration is the x-ms-request-duration-ms header, verbatim.
	RequestDuration string

	// Continuation is set for listings that have more pages.
	Continuation *ContinuationToken
}

// Result is the normalized envelope returned for every classified response.
type Result struct {
	// Body is the decoded payload. Listings hold a single "Documents" key.
	Body map[string]interface{}

	Properties Properties

	// Count is 1 for single documents and the page size for listings.
	Count int

	// ResourceID is the _rid of the listed collection.
	ResourceID string
}

// HasMore reports whether a listing has another page.
func (r *Result) HasMore() bool {
	return r.Properties.Continuation != nil
}

// Documents returns the listed documents, or the body itself for
// single-document results.
func (r *Result) Documents() []map[string]interface{} {
	raw, ok := r.Body[documentsKey].([]interface{})
	if !ok {
		return []map[string]interface{}{r.Body}
	}

	docs := make([]map[string]interface{}, 0, len(raw))
	for _, d := range raw {
		if m, ok := d.(map[string]interface{}); ok {
			docs = append(docs, m)
		}
	}
	return docs
}

// Decode decodes the body into out using its json struct tags.
func (r *Result) Decode(out interface{}) error {
	return decodeInto(r.Body, out)
}

// DecodeDocuments decodes the listed documents into out, which must be a
// pointer to a slice.
func (r *Result) DecodeDocuments(out interface{}) error {
	return decodeInto(r.Documents(), out)
}

func decodeInto(in, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(in); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}
