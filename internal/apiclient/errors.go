package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport marks failures where no HTTP response was received
// (connection refused, timeout, DNS).
var ErrTransport = errors.New("backend unreachable")

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	// Message is the server-reported error text, empty when the body had none
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ErrorMessage returns the text to show the operator for a failed call: the
// server's own message when it sent one, otherwise the fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// extractMessage reads the error text from a JSON error body. Precedence:
// "error", then "detail" (a string, or the first "msg" of a list), then
// "message".
func extractMessage(body []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}

	if s := textOf(doc["error"]); s != "" {
		return s
	}
	if s := textOf(doc["detail"]); s != "" {
		return s
	}
	return textOf(doc["message"])
}

func textOf(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		for _, item := range val {
			if m, ok := item.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok && s != "" {
					return s
				}
			}
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	case map[string]any:
		// {"error": {"message": "..."}}
		if s, ok := val["message"].(string); ok {
			return s
		}
	}
	return ""
}
