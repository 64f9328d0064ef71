package cosmos

import (
	"encoding/json"
	"fmt"
)

// Response headers read by the classifier.
const (
	HeaderRequestCharge   = "x-ms-request-charge"
	HeaderRequestDuration = "x-ms-request-duration-ms"
	HeaderContinuation    = "x-ms-continuation"
)

// Listing body keys.
const (
	documentsKey  = "Documents"
	countKey      = "_count"
	resourceIDKey = "_rid"
)

// Classify maps a raw response to an Outcome and its Result.
//
// Statuses outside the outcome table return OutcomeError with a
// *StatusError. A body that is not a JSON object returns
// ErrMalformedResponseBody regardless of the status.
func Classify(resp *Response) (Outcome, *Result, error) {
	const op = "Classify"

	if resp == nil {
		return OutcomeError, nil, &Error{Op: op, Err: ErrMalformedResponseBody, Msg: "nil response"}
	}

	outcome := OutcomeForStatus(resp.StatusCode)
	if outcome == OutcomeError {
		return OutcomeError, nil, &Error{Op: op, Err: &StatusError{Code: resp.StatusCode, Body: resp.Body}}
	}

	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return OutcomeError, nil, &Error{Op: op, Err: ErrMalformedResponseBody, Msg: err.Error()}
	}
	if body == nil {
		return OutcomeError, nil, &Error{Op: op, Err: ErrMalformedResponseBody, Msg: "body is null"}
	}

	props := Properties{}
	props.RequestCharge, _ = resp.Headers.Get(HeaderRequestCharge)
	props.RequestDuration, _ = resp.Headers.Get(HeaderRequestDuration)

	if !isListing(body) {
		return outcome, &Result{
			Body:       body,
			Properties: props,
			Count:      1,
		}, nil
	}

	count, ok := body[countKey].(float64)
	if !ok {
		return OutcomeError, nil, &Error{
			Op:  op,
			Err: ErrMalformedResponseBody,
			Msg: fmt.Sprintf("%s is %T, not a number", countKey, body[countKey]),
		}
	}

	if raw, ok := resp.Headers.Get(HeaderContinuation); ok && raw != "" {
		token, err := ParseContinuationToken(raw)
		if err != nil {
			return OutcomeError, nil, &Error{Op: op, Err: ErrMalformedResponseBody, Msg: err.Error()}
		}
		props.Continuation = token
	}

	rid, _ := body[resourceIDKey].(string)

	return outcome, &Result{
		Body:       map[string]interface{}{documentsKey: body[documentsKey]},
		Properties: props,
		Count:      int(count),
		ResourceID: rid,
	}, nil
}

func isListing(body map[string]interface{}) bool {
	if _, ok := body[documentsKey].([]interface{}); !ok {
		return false
	}
	_, ok := body[countKey]
	return ok
}
