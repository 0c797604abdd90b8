// ABOUTME: Error types shared by all API calls
// ABOUTME: Distinguishes dead sessions and backend validation failures

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned when the backend declares the bearer token
// invalid or expired. The stored token has already been cleared by the time
// callers see this.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError carries a backend error status and message
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error: %s", e.Message)
}

// IsValidation reports whether the error is a backend field-validation
// failure whose message should be shown to the user verbatim
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// IsAuth reports whether the error is an authentication failure
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// AsAPIError unwraps err into an *APIError if possible
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsSessionExpired reports whether err means the stored session died
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
