package mailbridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

// ErrorType classifies a failed operation so callers can branch on the kind
// of failure without parsing the human-readable message.
type ErrorType string

const (
	// ErrorTypeValidation marks a local validation failure; no network call was made.
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	// ErrorTypeClient marks an HTTP 4xx response other than 429.
	ErrorTypeClient ErrorType = "CLIENT_ERROR"
	// ErrorTypeServer marks an HTTP 5xx response.
	ErrorTypeServer ErrorType = "SERVER_ERROR"
	// ErrorTypeRateLimit marks an HTTP 429 response.
	ErrorTypeRateLimit ErrorType = "RATE_LIMIT_ERROR"
	// ErrorTypeNetwork marks a transport-level failure with no HTTP response.
	ErrorTypeNetwork ErrorType = "NETWORK_ERROR"
	// ErrorTypeUnknown marks anything that could not be categorized.
	ErrorTypeUnknown ErrorType = "UNKNOWN_ERROR"
)

// Result is the uniform envelope returned by every client operation,
// discriminated by Success. RequestID, Timestamp and DurationMillis are
// diagnostic correlation fields and are populated on every outcome.
type Result struct {
	Success bool `json:"success"`

	Data    map[string]any `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`

	Error      string    `json:"error,omitempty"`
	ErrorType  ErrorType `json:"errorType,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	StatusCode *int      `json:"statusCode,omitempty"`
	Endpoint   string    `json:"endpoint,omitempty"`

	RequestID      string `json:"requestId"`
	Timestamp      string `json:"timestamp"`
	DurationMillis int64  `json:"duration"`
}

// categorizeError maps an HTTP status code to an error type. 429 is carved
// out of the 4xx bucket so rate limiting stays distinguishable.
func categorizeError(status int) ErrorType {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status >= 400 && status < 500:
		return ErrorTypeClient
	case status >= 500:
		return ErrorTypeServer
	default:
		return ErrorTypeUnknown
	}
}

var statusSuggestions = map[int]string{
	http.StatusBadRequest:          "Check the request payload for missing or malformed fields.",
	http.StatusUnauthorized:        "Verify the API key is correct and has not been revoked.",
	http.StatusForbidden:           "The API key is valid but is not allowed to perform this operation.",
	http.StatusNotFound:            "Check the endpoint path and the email id.",
	http.StatusTooManyRequests:     "Rate limit reached. Reduce request volume before retrying.",
	http.StatusInternalServerError: "The service hit an internal error. Retry after a short delay.",
	http.StatusServiceUnavailable:  "The service is temporarily unavailable. Retry with backoff.",
}

const (
	genericSuggestion = "Retry the request; if the problem persists contact support with the request id."
	networkSuggestion = "Check network connectivity and that the base URL is reachable."
)

// suggestionFor returns the fixed suggestion for an exact status code,
// falling back to the generic one.
func suggestionFor(status int) string {
	if s, ok := statusSuggestions[status]; ok {
		return s
	}
	return genericSuggestion
}

// httpErrorMessage prefers a backend-supplied error string over the generic
// status line.
func httpErrorMessage(body map[string]any, status int) string {
	if msg, ok := body["error"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP error, status %d", status)
}

// classifyTransportError categorizes a failure that produced no HTTP
// response at all. Dial, DNS, timeout and context failures count as network
// errors; anything else stays unknown. http.Client.Do wraps everything in a
// *url.Error, so the wrapped error is what gets inspected: a redirect-policy
// or body-read failure is not a network problem.
func classifyTransportError(err error) (ErrorType, string) {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrorTypeNetwork, networkSuggestion
	case errors.As(err, &netErr):
		return ErrorTypeNetwork, networkSuggestion
	default:
		return ErrorTypeUnknown, genericSuggestion
	}
}
