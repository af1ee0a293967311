/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error interface
and carries a business code, a client-facing reason string, and an HTTP status code for
the few errors that surface before the WebSocket upgrade.
*/
package errs

import (
	"fmt"
	"net/http"
	"strings"

	"parlor/internal/pkg/logx"
)

// CustomError is the error structure used throughout the application.
// Chat-level failures travel to clients as the Message string inside an
// acknowledgement; HTTP-level failures additionally use Status.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the client-facing reason string.
	Message string

	// Status is the HTTP status code for errors reported before upgrade.
	Status int
}

// Error implements the standard Go error interface.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// NewError constructs a *CustomError from a predefined error code.
// Optional details are applied printf-style when the message template has
// placeholders. An unknown code degrades to ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Message: unknownErr.Message,
			Status:  unknownErr.Status,
		}
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
			)
		}
	}

	return &customErr
}

// Reason returns the client-facing reason string for a predefined error code.
// It is a convenience for building acknowledgement payloads.
func Reason(code int) string {
	return NewError(code).Message
}
