// Package errors provides custom error types for the ChatBTC answer service client.
package errors

import (
	"errors"
	"fmt"
)

// DefaultFailureMessage is shown in the transcript when a request fails
// without a user-facing explanation.
const DefaultFailureMessage = "Something went wrong. Try again later"

// Sentinel errors for common cases
var (
	ErrNoAnswer      = errors.New("no answer in response")
	ErrMissingConfig = errors.New("missing configuration")
)

// NetworkError represents a transport failure before any response arrived
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

// Unwrap exposes the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// APIError represents a non-successful HTTP response
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError that keeps the (truncated) response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	const maxBody = 4096
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is matches any other ParseError
func (e *ParseError) Is(target error) bool {
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// ConfigError reports a missing or invalid configuration value
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Key, e.Message)
}

// Is matches ErrMissingConfig
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

// UserFacingError is implemented by errors whose message is meant to be
// shown to the user verbatim.
type UserFacingError interface {
	error
	UserFacing() string
}

// userError is a failure carrying its own transcript text
type userError struct {
	msg string
}

func (e *userError) Error() string      { return e.msg }
func (e *userError) UserFacing() string { return e.msg }

// NewUserError creates an error whose message is shown in the transcript
func NewUserError(message string) error {
	return &userError{msg: message}
}

// ErrClientClosed is returned by a client that was closed before the
// request started.
var ErrClientClosed = NewUserError("The connection was closed. Restart ChatBTC to keep asking")

// UserMessage normalizes any failure to the text appended to the transcript.
// Transport, status, parse and missing-answer failures all collapse to
// DefaultFailureMessage; only errors that opt in through UserFacing surface
// their own text.
func UserMessage(err error) string {
	if err == nil {
		return DefaultFailureMessage
	}
	var uf UserFacingError
	if errors.As(err, &uf) {
		if msg := uf.UserFacing(); msg != "" {
			return msg
		}
	}
	return DefaultFailureMessage
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsAPIError reports whether err is a non-successful HTTP response
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// IsParseError reports whether err is a response parsing failure
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsNoAnswer reports whether the response was well-formed but had no answer
func IsNoAnswer(err error) bool {
	return errors.Is(err, ErrNoAnswer)
}

// IsConfigError reports whether err is a configuration problem
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

// GetResponseBody returns the response body carried by err, or ""
func GetResponseBody(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Body
	}
	return ""
}

// Kind returns a short label for the failure class, used as a log field
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsConfigError(err):
		return "config"
	case IsNetworkError(err):
		return "network"
	case IsAPIError(err):
		return "status"
	case IsParseError(err):
		return "parse"
	case IsNoAnswer(err):
		return "no_answer"
	default:
		return "other"
	}
}
