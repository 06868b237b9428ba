package sanity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Domain errors for the Sanity client.
var (
	// ErrMissingID indicates a createOrReplace without an explicit _id.
	ErrMissingID = errors.New("sanity: document _id required")

	// ErrEmptyResult indicates a mutation response without results.
	ErrEmptyResult = errors.New("sanity: mutation returned no results")
)

// APIError reports a non-2xx response from the Sanity API.
type APIError struct {
	Endpoint    string
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sanity: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Description)
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	var payload struct {
		Error struct {
			Description string `json:"description"`
		} `json:"error"`
		Message string `json:"message"`
	}
	desc := string(body)
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error.Description != "":
			desc = payload.Error.Description
		case payload.Message != "":
			desc = payload.Message
		}
	}
	if len(desc) > 300 {
		desc = desc[:300] + "..."
	}
	return &APIError{Endpoint: endpoint, StatusCode: status, Description: desc}
}
