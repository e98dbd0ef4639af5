package model

import "fmt"

// HTTPError reports a non-2xx response from an LLM provider.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string // truncated response body
	Err        error
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s returned HTTP %d", e.Provider, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether the provider rejected the credentials.
func (e *HTTPError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// NewHTTPError builds an HTTPError, truncating body to 200 bytes.
func NewHTTPError(provider string, statusCode int, body []byte) *HTTPError {
	b := string(body)
	if len(b) > 200 {
		b = b[:200] + "..."
	}
	return &HTTPError{Provider: provider, StatusCode: statusCode, Body: b}
}
