package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// maxPlainMessage caps how much of a non-JSON error body is surfaced to users
const maxPlainMessage = 200

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	// Message is the backend-provided message, empty when none was sent
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("code %d", e.StatusCode)
	}
	return fmt.Sprintf("code %d: %s", e.StatusCode, e.Message)
}

// IsAuthFailure reports whether the backend rejected the credentials (401 or 403)
func (e *APIError) IsAuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = strings.TrimSpace(payload.Message)
		return apiErr
	}

	text := strings.TrimSpace(string(body))
	if text != "" && len(text) <= maxPlainMessage && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	}
	return apiErr
}

// AsAPIError unwraps err to an *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthFailure reports whether err carries a 401 or 403 response
func IsAuthFailure(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsAuthFailure()
}

// UserMessage picks the text shown to the user for a failed call.
// Backend messages are shown verbatim; a backend error without one gets
// fallback; anything else (network, decoding) gets unexpected.
func UserMessage(err error, fallback, unexpected string) string {
	if apiErr, ok := AsAPIError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return unexpected
}
