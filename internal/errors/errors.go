package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error independently of its message.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidCredentials
	KindUnauthorized
	KindStoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthorized:
		return "unauthorized"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "internal"
	}
}

// Error is the single error type that crosses the service boundary.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Status overrides the status derived from Kind when non-zero.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by code so wrapped copies still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

var (
	// ErrEmailExists is returned when registering an email that is already taken.
	ErrEmailExists = &Error{Kind: KindConflict, Code: "EMAIL_EXISTS", Message: "email already registered", Status: http.StatusBadRequest}
	// ErrUserNotFound is returned when no user matches the login email.
	ErrUserNotFound = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Code: "INVALID_CREDENTIALS", Message: "invalid email or password"}
	// ErrUnauthorized is returned for a missing, malformed or expired session token.
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: "session token is missing, invalid or expired"}
	// ErrNotFound is returned when a record id is unknown.
	ErrNotFound = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "record not found"}
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = &Error{Kind: KindConflict, Code: "DUPLICATE", Message: "record already exists"}
	// ErrStaleRevision is returned when an update carries an outdated revision.
	ErrStaleRevision = &Error{Kind: KindConflict, Code: "STALE_REVISION", Message: "record was modified by someone else, reload and retry"}
	// ErrLastItem is returned when removing the only line item of an invoice.
	ErrLastItem = &Error{Kind: KindValidation, Code: "LAST_ITEM", Message: "an invoice must keep at least one item"}
	// ErrStoreUnavailable is returned when the persistent store cannot be reached.
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable, Code: "STORE_UNAVAILABLE", Message: "data store is unreachable, the service is running in degraded mode"}
)

// Validation builds a validation error with a caller supplied message.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// StoreUnavailable wraps a connectivity failure.
func StoreUnavailable(cause error) *Error {
	return ErrStoreUnavailable.Wrap(cause)
}

// KindOf reports the Kind of err, KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Msg  string `json:"msg"`
	Code string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Msg:  e.Message,
		Code: e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var e *Error
	if !errors.As(err, &e) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	status := e.Status
	if status == 0 {
		status = statusForKind(e.Kind)
	}
	if e.Kind == KindInternal {
		return NewHTTPError(status, "internal server error", "INTERNAL_ERROR")
	}
	return NewHTTPError(status, e.Message, e.Code)
}

func statusForKind(k Kind) int {
	switch k {
	case KindValidation, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
