package api

import "fmt"

// ErrorKind categorizes API client failures
type ErrorKind string

const (
	// KindNetwork indicates the request never produced a response
	KindNetwork ErrorKind = "network"

	// KindServer indicates the API answered with a non-2xx status
	KindServer ErrorKind = "server"

	// KindDecode indicates the response body could not be decoded
	KindDecode ErrorKind = "decode"

	// KindValidation indicates the client rejected the input before sending
	KindValidation ErrorKind = "validation"
)

// Sentinels for errors.Is matching on kind
var (
	ErrNetwork    = &Error{Kind: KindNetwork}
	ErrServer     = &Error{Kind: KindServer}
	ErrDecode     = &Error{Kind: KindDecode}
	ErrValidation = &Error{Kind: KindValidation}
)

// Error is returned by every service call
type Error struct {
	// Kind categorizes the error
	Kind ErrorKind `json:"kind"`

	// StatusCode for server errors
	StatusCode int `json:"status_code,omitempty"`

	// Message is safe to show to the user
	Message string `json:"message"`

	// Underlying error that caused this error
	Cause error `json:"-"`
}

// Error implements the error interface. The result is what the user sees in a
// notification, so it leads with the human message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// NewNetworkError creates a transport error
func NewNetworkError(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Cause: cause}
}

// NewServerError creates an error for a non-2xx response
func NewServerError(statusCode int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", statusCode)
	}
	return &Error{Kind: KindServer, StatusCode: statusCode, Message: message}
}

// NewDecodeError creates an error for an undecodable response body
func NewDecodeError(cause error) *Error {
	return &Error{Kind: KindDecode, Message: "unexpected response from server", Cause: cause}
}

// NewValidationError creates an error for input rejected client-side
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}
