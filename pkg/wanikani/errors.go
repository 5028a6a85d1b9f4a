package wanikani

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned by NewClient when no credential is configured.
var ErrNoAPIKey = errors.New("wanikani: api key is required")

// APIError is returned for any non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("wanikani: %s %s: %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("wanikani: %s %s: %s: %s", e.Method, e.URL, e.Status, e.Body)
}
