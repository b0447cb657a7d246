package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the tracking service, carrying the
// message extracted from the JSON error body when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

// IsAuthError reports whether err is a 401 from the service. The caller
// is expected to clear stored credentials and return to the login screen.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the service. Detail views
// render an explicit not-found state for this instead of failing.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
