package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryProtocol Category = "protocol"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// NexaError is a structured error with a stable code, a suggestion and
// a documentation link.
type NexaError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, protocol, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *NexaError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *NexaError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *NexaError) WithDetail(d string) *NexaError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detailed explanation to the error.
func (e *NexaError) WithDetailf(format string, args ...any) *NexaError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *NexaError) WithSuggestion(s string) *NexaError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *NexaError) Wrap(err error) *NexaError {
	e.Wrapped = err
	return e
}

// Format renders the error with its detail and suggestion, one per line.
func (e *NexaError) Format() string {
	out := e.Error()
	if e.Detail != "" {
		out += "\n  " + e.Detail
	}
	if e.Suggestion != "" {
		out += "\n  hint: " + e.Suggestion
	}
	if e.DocURL != "" {
		out += "\n  see: " + e.DocURL
	}
	return out
}

// New creates a NexaError from a registered error code.
func New(code string) *NexaError {
	template, ok := registry[code]
	if !ok {
		return &NexaError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &NexaError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new NexaError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *NexaError {
	return &NexaError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a NexaError.
func FromError(err error, code string) *NexaError {
	if err == nil {
		return nil
	}
	e := New(code)
	e.Wrapped = err
	return e
}

// IsCode reports whether err is a NexaError with the given code.
func IsCode(err error, code string) bool {
	for err != nil {
		if ne, ok := err.(*NexaError); ok && ne.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
