package contentstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidResponse = errors.New("invalid response from content store")
	ErrEmptyMutation   = errors.New("no mutations to commit")
)

// APIError is a non-2xx answer from the content store
type APIError struct {
	StatusCode  int
	Type        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("content store returned status %d", e.StatusCode)
	}
	if e.Type != "" {
		return fmt.Sprintf("content store returned status %d (%s): %s", e.StatusCode, e.Type, e.Description)
	}
	return fmt.Sprintf("content store returned status %d: %s", e.StatusCode, e.Description)
}

// IsNotFound reports whether err is a 404 from the content store
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// newAPIError accepts both {"error":{"description","type"}} and
// {"error":"...","message":"..."} bodies.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Description = strings.TrimSpace(string(body))
		return apiErr
	}

	var detailed struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	}
	var plain string
	switch {
	case json.Unmarshal(envelope.Error, &detailed) == nil && detailed.Description != "":
		apiErr.Description = detailed.Description
		apiErr.Type = detailed.Type
	case json.Unmarshal(envelope.Error, &plain) == nil:
		apiErr.Type = plain
		apiErr.Description = envelope.Message
	default:
		apiErr.Description = envelope.Message
	}
	return apiErr
}
