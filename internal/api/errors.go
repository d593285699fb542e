package api

import (
	"errors"
	"fmt"
	"net/http"

	"cramomatic"
)

// Error is a request failure with the HTTP status it maps to.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func badRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// fromEngine classifies an engine error. Well-formed requests naming things the
// tables do not know are 422; anything unexpected is a 500.
func fromEngine(err error) *Error {
	switch {
	case errors.Is(err, cramomatic.ErrUnknownItem),
		errors.Is(err, cramomatic.ErrUnknownType),
		errors.Is(err, cramomatic.ErrScoreOutOfRange):
		return &Error{Status: http.StatusUnprocessableEntity, Message: err.Error(), Err: err}
	case errors.Is(err, cramomatic.ErrInvalidSlot):
		return &Error{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	default:
		return &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}
}

// StatusOf returns the HTTP status for any error the service returns.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return http.StatusInternalServerError
}
