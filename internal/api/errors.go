package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// GenericMessage is shown when the backend gives no usable explanation.
const GenericMessage = "Something went wrong. Please try again."

// ErrUnauthorized is matched by every 401 response.
var ErrUnauthorized = errors.New("unauthorized")

var sanitizer = bluemonday.StrictPolicy()

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API %d: %s", e.Status, e.Message)
}

// Is makes errors.Is(err, ErrUnauthorized) hold for 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// UserMessage returns text fit for a notification: the backend message for
// API errors, a generic fallback otherwise.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericMessage
}

// parseError builds an *Error from a failed response. The backend message is
// stripped of markup; anything unparseable falls back to GenericMessage.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}
	msg = strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(msg)))
	if msg == "" {
		msg = GenericMessage
	}
	return &Error{Status: resp.StatusCode, Message: msg}
}
