package lambda

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by NewClient when no API key is available.
var ErrMissingAPIKey = errors.New("missing API key: provide Config.APIKey or set LAMBDA_API_KEY")

// APIError represents a 4xx/5xx response from the Lambda Cloud API,
// carrying the provider's error envelope when one was present.
type APIError struct {
	Status     int
	Code       string
	Message    string
	Suggestion string
	// Body holds the parsed response body, if the response carried JSON.
	Body map[string]any
}

func (e *APIError) Error() string {
	base := fmt.Sprintf("lambda api error (status=%d code=%s)", e.Status, e.Code)
	if e.Message != "" {
		base += ": " + e.Message
	}
	return base
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
