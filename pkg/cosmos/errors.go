package cosmos

import (
	"errors"
	"fmt"
)

// Common errors returned by the client. Protocol outcomes such as NotFound or
// Conflict are not errors; they are reported through Outcome.
var (
	// ErrInvalidInput is returned when a container, id, partition key or
	// document required by an operation is missing or malformed. It is always
	// raised before any signing or network activity.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedResponseBody is returned when a response body or the
	// continuation header cannot be decoded as JSON.
	ErrMalformedResponseBody = errors.New("malformed response body")

	// ErrUnexpectedStatus is matched by *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Error describes a failed client operation.
type Error struct {
	// Op is the operation that failed, e.g. "GetDocument".
	Op string

	// Err is the underlying error.
	Err error

	// Msg adds optional context.
	Msg string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusError is returned for HTTP statuses that do not map to an Outcome.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status of the response.
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Is reports whether target is ErrUnexpectedStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

func invalidInput(op, msg string) error {
	return &Error{Op: op, Err: ErrInvalidInput, Msg: msg}
}
