package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError for HTTP mapping and handler branching.
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "validation"
	ErrKindNotFound   ErrorKind = "not_found"
	ErrKindConflict   ErrorKind = "conflict"
	ErrKindAuth       ErrorKind = "auth"
	ErrKindForbidden  ErrorKind = "forbidden"
	ErrKindStock      ErrorKind = "stock"
	ErrKindGateway    ErrorKind = "gateway"
	ErrKindInternal   ErrorKind = "internal"
)

// AppError is the single error type that crosses the usecase boundary.
// Handlers translate it into a uniform {success:false, message} response.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case ErrKindValidation, ErrKindStock, ErrKindGateway:
		return http.StatusBadRequest
	case ErrKindNotFound:
		return http.StatusNotFound
	case ErrKindConflict:
		return http.StatusConflict
	case ErrKindAuth:
		return http.StatusUnauthorized
	case ErrKindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage hides internal detail for 500s.
func (e *AppError) PublicMessage() string {
	if e.Kind == ErrKindInternal {
		return "Something went wrong. Please try again later."
	}
	return e.Message
}

func Validationf(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindConflict, Message: fmt.Sprintf(format, args...)}
}

func Authf(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindAuth, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Stockf(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindStock, Message: fmt.Sprintf(format, args...)}
}

func Gatewayf(format string, args ...any) *AppError {
	return &AppError{Kind: ErrKindGateway, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected storage/transport failure. The original error
// is preserved for logging but never shown to the client.
func Internal(msg string, err error) *AppError {
	return &AppError{Kind: ErrKindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, unwrapping as needed. Unclassified errors
// are treated as internal.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ErrKindInternal
}

// AsAppError coerces any error into an AppError for response writing.
func AsAppError(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("unexpected error", err)
}
