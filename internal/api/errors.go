package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches a NetworkError carrying a 404 status via errors.Is.
var ErrNotFound = errors.New("not found")

// NetworkError reports a non-success HTTP status or a transport failure.
// Status is 0 for transport failures.
type NetworkError struct {
	Op      string
	Status  int
	Message string // server-provided message, if any
	Err     error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.Status, http.StatusText(e.Status), e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": network error"
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is reports 404 responses as ErrNotFound
func (e *NetworkError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ParseError reports a response body that is not the expected JSON.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid response body: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UserMessage returns the message to show in a notice: the server-provided
// message when there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) && netErr.Message != "" {
		return netErr.Message
	}
	return fallback
}

// serverMessage pulls a human-readable message out of an error body.
// json-server and most REST backends use "message" or "error".
func serverMessage(body []byte) string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		if len(body) <= 200 && !strings.ContainsAny(string(body), "<{") {
			return string(body)
		}
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Error) > 0 {
		var s string
		if err := json.Unmarshal(payload.Error, &s); err == nil {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil {
			return nested.Message
		}
	}
	return ""
}
