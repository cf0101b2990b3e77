package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failure reported by the knowledge-base service. Message is
// the human-readable text pages surface verbatim; there is no finer taxonomy
// and callers never retry automatically.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// errorPayload covers the message shapes the service emits.
type errorPayload struct {
	Detail  string `json:"detail"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func apiErrorFromResponse(status int, body []byte) *APIError {
	message := ""
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, candidate := range []string{payload.Detail, payload.Error, payload.Message} {
			if trimmed := strings.TrimSpace(candidate); trimmed != "" {
				message = trimmed
				break
			}
		}
	}
	if message == "" {
		if trimmed := strings.TrimSpace(string(body)); trimmed != "" && len(trimmed) <= 200 && !strings.HasPrefix(trimmed, "{") {
			message = trimmed
		}
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &APIError{Status: status, Message: message}
}
