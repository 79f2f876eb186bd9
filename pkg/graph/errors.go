package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrTenantRequired       = errors.New("tenant is required")
	ErrClientIDRequired     = errors.New("client ID is required")
	ErrClientSecretRequired = errors.New("client secret is required")
	ErrMissingAccessToken   = errors.New("token response did not contain an access token")
	ErrMalformedResponse    = errors.New("response body is not valid JSON")
	ErrNoTokenManager       = errors.New("token manager is required")
)

// Status kinds matched by APIError.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

const noAdditionalDetails = "[no additional details]"

// APIError is a non-2xx answer from the resource API.
type APIError struct {
	StatusCode int    `json:"status_code"       yaml:"status_code"`
	Status     string `json:"status"            yaml:"status"`
	Code       string `json:"code,omitempty"    yaml:"code,omitempty"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	Body       []byte `json:"-"                 yaml:"-"`
}

// NewAPIError builds an APIError from a response status and body, extracting
// the most specific message the body offers.
func NewAPIError(statusCode int, body []byte) *APIError {
	code, message := ParseErrorBody(body)

	return &APIError{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Code:       code,
		Message:    message,
		Body:       body,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = noAdditionalDetails
	}

	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}

	return fmt.Sprintf("Graph API Error: %d (%s) %s", e.StatusCode, status, message)
}

// Is lets errors.Is match an APIError against the status kinds.
func (e *APIError) Is(target error) bool {
	switch {
	case errors.Is(target, ErrUnauthorized):
		return e.StatusCode == http.StatusUnauthorized
	case errors.Is(target, ErrForbidden):
		return e.StatusCode == http.StatusForbidden
	case errors.Is(target, ErrNotFound):
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// AuthenticationError is a failure to obtain an access token from the
// identity endpoint.
type AuthenticationError struct {
	// StatusCode is zero when the identity endpoint was never reached.
	StatusCode int
	Code       string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("authentication failed: %v", e.Err)
		}

		return "authentication failed"
	}

	message := e.Message
	if message == "" {
		message = noAdditionalDetails
	}

	if e.Code != "" {
		message = e.Code + ": " + message
	}

	return fmt.Sprintf("authentication failed: %d (%s) %s",
		e.StatusCode, http.StatusText(e.StatusCode), message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// TransportError is a failed round trip or a 2xx body that could not be
// decoded.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("Graph API transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	OData            *struct {
		Code    string `json:"code"`
		Message struct {
			Lang  string `json:"lang"`
			Value string `json:"value"`
		} `json:"message"`
	} `json:"odata.error"`
}

// ParseErrorBody extracts an error code and message from an error response.
// The first line of an OAuth error_description wins over an OData
// odata.error message. Both are empty when the body carries neither.
func ParseErrorBody(body []byte) (code, message string) {
	var parsed errorBody

	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return "", ""
	}

	if parsed.ErrorDescription != "" {
		return parsed.Error, FirstLine(parsed.ErrorDescription)
	}

	if parsed.OData != nil {
		return parsed.OData.Code, parsed.OData.Message.Value
	}

	return parsed.Error, ""
}

// FirstLine returns s up to the first line break.
func FirstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}

	return s
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	authErr := &AuthenticationError{}
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}

	return 0
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
