package starr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrQualityProfileNotFound is returned when a configured quality profile
// name does not exist on the application.
var ErrQualityProfileNotFound = errors.New("quality profile not found")

// APIError is a non-2xx response from a Starr application.
type APIError struct {
	StatusCode int
	Message    string
	Kind       Kind
	Op         string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Kind, e.StatusCode, e.Message)
}

// statusMessage maps common Starr HTTP failures to actionable messages.
func statusMessage(code int) string {
	switch code {
	case http.StatusFound:
		return "Redirect - are you missing the URL base?"
	case http.StatusBadRequest:
		return "Bad Request - please check your configuration"
	case http.StatusUnauthorized:
		return "Unauthorized - please check your API key"
	case http.StatusNotFound:
		return "Not Found - please check your configuration"
	case http.StatusConflict:
		return "Conflict - please check your configuration"
	case http.StatusInternalServerError:
		return "Internal Server Error - check the application logs"
	default:
		return fmt.Sprintf("Unexpected HTTP status code %d", code)
	}
}

// IsUnauthorized reports whether err is a 401 from the application.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the application.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
