package thread

import (
	"errors"
	"fmt"
)

// ErrNotThread is wrapped by MalformedInputError when the payload is not a
// JSON array of listings.
var ErrNotThread = errors.New("payload is not a thread listing array")

// FetchError reports a failure retrieving or decoding a thread.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MalformedInputError reports a payload that does not have the expected
// two-listing shape.
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed thread: %s: %v", e.Reason, e.Err)
	}
	return "malformed thread: " + e.Reason
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
