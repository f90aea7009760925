// Package rest implements the HTTP client for the admin backend API.
// Every JSON response from the backend carries the envelope
// {success, message, data, errors}; a response with field errors is
// surfaced as a *ValidationError, any other rejection as an *APIError.
package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FallbackMessage is shown when the server provides no usable message.
const FallbackMessage = "The request could not be completed. Please try again."

// ErrNotFound indicates the requested resource does not exist. Every
// 404 rejection matches it through errors.Is.
var ErrNotFound = errors.New("resource not found")

// APIError is a server rejection that carries only a message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rest: request failed with status %d", e.Status)
	}
	return e.Message
}

// Unwrap maps 404 rejections onto ErrNotFound while keeping the
// server's message for the operator.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// ValidationError is a server rejection with per-field message lists.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// First returns the first message recorded for the given field.
func (e *ValidationError) First(field string) string {
	if e == nil {
		return ""
	}
	msgs := e.Fields[field]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// UserMessage extracts the message an operator should see for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	var ae *APIError
	if errors.As(err, &ae) && strings.TrimSpace(ae.Message) != "" {
		return ae.Message
	}
	return FallbackMessage
}
