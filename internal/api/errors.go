package api

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidID is wrapped by requests rejected before any I/O because an
// identifier was not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// RequestError is returned for non-2xx responses and transport failures.
// Message is safe to show to a user.
type RequestError struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Name identifies the error kind in structured logs.
func (e *RequestError) Name() string {
	return "RequestError"
}

// Message extracts the user-facing message of err, or fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// serverMessage picks the most specific message from an error body.
func serverMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := strings.TrimSpace(parsed.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(parsed.Error); msg != "" {
			return msg
		}
		return ""
	}
	if strings.HasPrefix(trimmed, "<") {
		// HTML error pages from proxies are not user-facing text.
		return ""
	}
	return trimmed
}
