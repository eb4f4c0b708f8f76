package api

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when an operation is invoked with an empty
// or whitespace-only query.
var ErrEmptyQuery = errors.New("api: empty query")

// TransportError means the service could not be reached or answered
// with a non-2xx status.
type TransportError struct {
	Op     string // operation name: "search", "suggest", "links", "chat"
	Status int    // HTTP status, 0 if the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api: %s returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("api: %s request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponse means the service answered 2xx but the body could
// not be decoded into the expected shape.
type MalformedResponse struct {
	Op  string
	Err error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("api: %s returned malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponse) Unwrap() error { return e.Err }

// IsCancelled reports whether err is the result of a superseded or
// abandoned request. Cancellation is never a user-visible error.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
