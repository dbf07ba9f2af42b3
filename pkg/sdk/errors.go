package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel targets for errors.Is classification of backend failures.
var (
	// ErrBackendUnavailable covers network failures and 5xx responses.
	ErrBackendUnavailable = errors.New("sdk: backend unavailable")
	// ErrBackendRejected covers 4xx responses other than auth rejections.
	ErrBackendRejected = errors.New("sdk: backend rejected request")
	// ErrUnauthorized covers 401 and 403 responses.
	ErrUnauthorized = errors.New("sdk: request not authorized")
)

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Is maps status classes onto the sentinel targets so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBackendUnavailable:
		return e.StatusCode >= 500
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrBackendRejected:
		return e.StatusCode >= 400 && e.StatusCode < 500 &&
			e.StatusCode != http.StatusUnauthorized && e.StatusCode != http.StatusForbidden
	}
	return false
}
