package fetch

import "fmt"

// HTTPError is a non-2xx response from the table endpoint.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
	RequestID  string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("GET %s: status=%d", e.URL, e.StatusCode)
	if e.RequestID != "" {
		msg += " request_id=" + e.RequestID
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// AuthError indicates authentication/authorization failures (401/403).
type AuthError struct{ *HTTPError }

func (e *AuthError) Error() string { return fmt.Sprintf("authentication failed: %s", e.HTTPError.Error()) }

// NotFoundError indicates the stored table does not exist.
type NotFoundError struct{ *HTTPError }

func (e *NotFoundError) Error() string { return fmt.Sprintf("table not found: %s", e.HTTPError.Error()) }

// RateLimitError indicates 429 responses after retries ran out.
type RateLimitError struct{ *HTTPError }

func (e *RateLimitError) Error() string { return fmt.Sprintf("rate limited: %s", e.HTTPError.Error()) }

// ServerError indicates 5xx errors after retries ran out.
type ServerError struct{ *HTTPError }

func (e *ServerError) Error() string { return fmt.Sprintf("server error: %s", e.HTTPError.Error()) }

// UnreachableError indicates the host could not be reached at all.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	if e == nil {
		return "unreachable"
	}
	return fmt.Sprintf("endpoint unreachable at %s: %v", e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

func classify(e *HTTPError) error {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return &AuthError{HTTPError: e}
	case e.StatusCode == 404:
		return &NotFoundError{HTTPError: e}
	case e.StatusCode == 429:
		return &RateLimitError{HTTPError: e}
	case e.StatusCode >= 500 && e.StatusCode <= 599:
		return &ServerError{HTTPError: e}
	}
	return e
}
