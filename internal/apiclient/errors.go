package apiclient

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// APIError is a non-2xx upstream reply that carried a JSON body.
type APIError struct {
	Status int
	Data   json.RawMessage
	// Message is the body's "message" field, empty when the backend sent none.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func newError(status int, body []byte) error {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return errors.Errorf("HTTP %d", status)
	}
	return &APIError{Status: status, Data: json.RawMessage(body), Message: parsed.Message}
}

// MessageOr returns the backend's message for err when there is one, fallback otherwise.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// StatusOf returns the upstream status carried by err, or 0 when the call never got a JSON reply.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
