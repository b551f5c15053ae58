package client

import (
	"fmt"

	"admindesk/internal/apperrors"
)

// ErrAuthentication indicates a missing, invalid, or expired session token,
// or rejected login credentials.
type ErrAuthentication struct {
	Reason string
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("could not authenticate the request: %s", e.Reason)
}

// ErrAuthorization indicates the caller's role does not permit the operation.
type ErrAuthorization struct {
	Reason string
}

func (e *ErrAuthorization) Error() string {
	return "the request is not authorized: " + e.Reason
}

// ErrBadRequest indicates the server rejected the request as malformed.
type ErrBadRequest struct {
	Reason string
	Fields []apperrors.FieldError
}

func (e *ErrBadRequest) Error() string {
	if len(e.Fields) == 0 {
		return "bad request: " + e.Reason
	}
	msg := "bad request: " + e.Reason + ":"
	for i, field := range e.Fields {
		msg = fmt.Sprintf("%s\n  %d. %s %s", msg, i+1, field.Field, field.Message)
	}
	return msg
}

// ErrNotFound indicates the addressed resource does not exist.
type ErrNotFound struct {
	Reason string
}

func (e *ErrNotFound) Error() string {
	return e.Reason
}

// ErrConflict indicates a uniqueness collision, e.g. a duplicate email.
type ErrConflict struct {
	Reason string
}

func (e *ErrConflict) Error() string {
	return e.Reason
}

// ErrInternalServer indicates the server failed in an unspecified way.
type ErrInternalServer struct{}

func (e *ErrInternalServer) Error() string {
	return "an internal server error occurred"
}

// apiError converts a decoded error body into the typed error for a status.
func apiError(statusCode int, body apperrors.ErrorResponse) error {
	reason := body.Error
	if reason == "" {
		reason = fmt.Sprintf("received %d from API server", statusCode)
	}
	switch statusCode {
	case 401:
		return &ErrAuthentication{Reason: reason}
	case 403:
		return &ErrAuthorization{Reason: reason}
	case 400:
		return &ErrBadRequest{Reason: reason, Fields: body.Fields}
	case 404:
		return &ErrNotFound{Reason: reason}
	case 409:
		return &ErrConflict{Reason: reason}
	case 500:
		return &ErrInternalServer{}
	default:
		return fmt.Errorf("received %d from API server: %s", statusCode, reason)
	}
}
