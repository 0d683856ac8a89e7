package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a failure by how the storefront must surface it.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindBusiness     Kind = "business"
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// SignInPath is where unauthenticated callers are sent.
const SignInPath = "/signin"

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Body is the response payload shown to the shopper.
func (e *Error) Body() gin.H {
	body := gin.H{"error": e.Message, "kind": e.Kind}
	if e.Field != "" {
		body["field"] = e.Field
	}
	if e.Kind == KindUnauthorized {
		body["redirect"] = SignInPath
	}
	return body
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Network wraps a connectivity failure. The shopper only sees a generic message.
func Network(err error) *Error {
	return New(http.StatusBadGateway, KindNetwork, "Unable to reach the store right now. Please try again.", err)
}

// Business carries a backend-reported failure message verbatim.
func Business(status int, message string) *Error {
	if status < 400 {
		status = http.StatusUnprocessableEntity
	}
	if message == "" {
		message = "Request failed"
	}
	return New(status, KindBusiness, message, nil)
}

// Validation reports a missing or malformed field before any backend call.
func Validation(field, message string) *Error {
	e := New(http.StatusBadRequest, KindValidation, message, nil)
	e.Field = field
	return e
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Please sign in to continue"
	}
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindInternal, message, err)
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Something went wrong", err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// ErrorMiddleware renders the last handler error attached with c.Error.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := From(c.Errors.Last().Err)
		c.AbortWithStatusJSON(appErr.Code, appErr.Body())
	}
}
