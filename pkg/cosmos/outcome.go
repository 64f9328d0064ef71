package cosmos

import "net/http"

// Outcome classifies the response to a request.
type Outcome int

const (
	// OutcomeError covers transport failures, unmapped statuses and local
	// errors. It is the zero value.
	OutcomeError Outcome = iota
	OutcomeOK
	OutcomeBadRequest
	OutcomeUnauthorized
	OutcomeStorageLimitReached
	OutcomeNotFound
	OutcomeConflict
	OutcomeEntityTooLarge
)

// Only these statuses are classified; everything else is OutcomeError.
// 429 is deliberately absent: throttling is not handled by the client.
var outcomeByStatus = map[int]Outcome{
	http.StatusOK:                    OutcomeOK,
	http.StatusCreated:               OutcomeOK,
	http.StatusBadRequest:            OutcomeBadRequest,
	http.StatusUnauthorized:          OutcomeUnauthorized,
	http.StatusForbidden:             OutcomeStorageLimitReached,
	http.StatusNotFound:              OutcomeNotFound,
	http.StatusConflict:              OutcomeConflict,
	http.StatusRequestEntityTooLarge: OutcomeEntityTooLarge,
}

// OutcomeForStatus maps an HTTP status to its Outcome.
func OutcomeForStatus(status int) Outcome {
	if o, ok := outcomeByStatus[status]; ok {
		return o
	}
	return OutcomeError
}

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeBadRequest:
		return "bad_request"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeStorageLimitReached:
		return "storage_limit_reached"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeConflict:
		return "conflict"
	case OutcomeEntityTooLarge:
		return "entity_too_large"
	default:
		return "error"
	}
}
