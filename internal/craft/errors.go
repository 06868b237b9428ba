package craft

import (
	"errors"
	"fmt"
)

// Domain errors for the Craft client.
var (
	// ErrUnexpectedShape indicates a response body that does not match any
	// known document or block layout.
	ErrUnexpectedShape = errors.New("craft: unexpected response shape")

	// ErrUnauthorized indicates the API token was rejected.
	ErrUnauthorized = errors.New("craft: unauthorized")
)

// StatusError reports a non-2xx response from the Craft API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("craft: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
