package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a structured failure returned by the server.
// Message is empty when the response carried no human-readable message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsUnauthorized reports whether the server rejected the credentials or token.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Is lets errors.Is(err, ErrUnauthorized) match 401/403 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.IsUnauthorized()
}

// TransportError means no structured response was obtained: the request
// could not be sent, the connection failed, or the body was unreadable.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, ErrUnavailable, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// parseError builds an APIError from an error response body. Both
// {"message": "..."} and {"error": {"message": "..."}} are understood;
// anything else yields an empty message.
func parseError(statusCode int, body []byte) error {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		return &APIError{StatusCode: statusCode, Message: nested.Error.Message}
	}

	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return &APIError{StatusCode: statusCode, Message: flat.Message}
	}

	return &APIError{StatusCode: statusCode}
}

// AsAPIError unwraps err to an *APIError if there is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
