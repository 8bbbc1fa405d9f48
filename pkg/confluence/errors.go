package confluence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is returned for any non-2xx response from the Confluence API.
type APIError struct {
	Method     string
	URL        string
	StatusCode int

	// Body is the raw response body.
	Body string

	// Message and ServerStatusCode are taken from a JSON error body when one
	// could be parsed. Parsed reports whether that happened.
	Message          string
	ServerStatusCode int
	Parsed           bool
}

func newAPIError(method, url string, status int, body []byte) *APIError {
	e := &APIError{
		Method:     method,
		URL:        url,
		StatusCode: status,
		Body:       string(body),
	}

	var payload struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil &&
		(payload.Message != "" || payload.StatusCode != 0) {
		e.Message = payload.Message
		e.ServerStatusCode = payload.StatusCode
		e.Parsed = true
	}

	return e
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Reason())
}

// Reason returns the server message when one was parsed, else the raw body.
func (e *APIError) Reason() string {
	if e.Parsed && e.Message != "" {
		return e.Message
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return "empty response body"
	}
	return body
}

// Detail renders the status code and message from a parsed JSON error body,
// falling back to the raw response text. The message clause is left out when
// the body carried only a status code.
func (e *APIError) Detail() string {
	if !e.Parsed {
		return e.Body
	}
	status := e.ServerStatusCode
	if status == 0 {
		status = e.StatusCode
	}
	if e.Message == "" {
		return fmt.Sprintf("status code: %d", status)
	}
	return fmt.Sprintf("status code: %d, message: %s", status, e.Message)
}

// AsAPIError returns the APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
