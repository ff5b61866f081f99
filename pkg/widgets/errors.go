package widgets

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a widget kind has no control.
var ErrUnknownKind = errors.New("widgets: unknown widget kind")

// ValidationError reports user input a control could not accept. It is local
// to one widget; the session continues and the renderer re-prompts.
type ValidationError struct {
	WidgetID string
	Input    string
	Reason   string
	Err      error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("widgets: %s: %s", e.WidgetID, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(id, input, reason string, err error) *ValidationError {
	return &ValidationError{WidgetID: id, Input: input, Reason: reason, Err: err}
}
