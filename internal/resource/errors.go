package resource

import (
	"errors"
	"net/http"

	"gaportal/internal/apiclient"
)

// Error is a failed page action as the user sees it: an alert text and the status to answer with.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fail turns an upstream failure into an Error. Calls that never got a JSON reply answer 502.
// Failing an Error again keeps its upstream cause and only swaps the fallback text.
func Fail(err error, fallback string) error {
	var failed *Error
	if errors.As(err, &failed) {
		if failed.Err == nil {
			return failed
		}
		err = failed.Err
	}
	status := apiclient.StatusOf(err)
	if status == 0 {
		status = http.StatusBadGateway
	}
	return &Error{Status: status, Message: apiclient.MessageOr(err, fallback), Err: err}
}

// Refuse is an action stopped before any upstream call.
func Refuse(message string) error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: message}
}
