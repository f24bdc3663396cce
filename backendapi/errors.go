package backendapi

import "fmt"

// RequestError is returned when the backend responds outside the 2xx range.
// It carries the HTTP status and the raw body text for diagnostics.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("backend request failed with status %d: %s", e.StatusCode, e.Body)
}
