// Package apierror defines the single normalized failure shape the backend
// and the HTTP client agree on. Every transport-level failure reaching
// service or UI code is an *APIError; callers branch on Success/Message and
// never inspect transport-specific error objects.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Backend error codes and their fixed user-visible messages.
const (
	CodeInvalidCredentials  = "AUTH_001"
	CodeTokenExpired        = "AUTH_002"
	CodeInvalidToken        = "AUTH_003"
	CodeRefreshTokenExpired = "AUTH_004"
	CodeUserNotFound        = "USER_001"
	CodeEmailExists         = "USER_002"
	CodeInvalidUserData     = "USER_003"
	CodeInsufficientPerms   = "PERM_001"
	CodeInvalidPermission   = "PERM_002"
	CodeValidation          = "VAL_001"
	CodeSystem              = "SYS_001"

	// Client-side classifications, never sent by the backend.
	CodeNetworkError = "NETWORK_ERROR"
	CodeUnknown      = "UNKNOWN_ERROR"
)

var codeMessages = map[string]string{
	CodeInvalidCredentials:  "Invalid credentials",
	CodeTokenExpired:        "Token expired",
	CodeInvalidToken:        "Invalid token",
	CodeRefreshTokenExpired: "Refresh token expired",
	CodeUserNotFound:        "User not found",
	CodeEmailExists:         "Email already exists",
	CodeInvalidUserData:     "Invalid user data",
	CodeInsufficientPerms:   "Insufficient permissions",
	CodeInvalidPermission:   "Invalid permission",
	CodeValidation:          "Validation error",
	CodeSystem:              "System error",
}

// MessageFor returns the fixed message for a backend error code, or the
// code itself when unknown.
func MessageFor(code string) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return code
}

// Detail carries the backend's machine-readable error information.
type Detail struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// APIError is the normalized rejection value:
// {success:false, message, error:{code, details}, status}.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  Detail `json:"error"`
	Status  int    `json:"status,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Detail.Code, e.Status)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Detail.Code)
}

// New builds a normalized error with an explicit code and status.
func New(status int, message, code, details string) *APIError {
	if message == "" {
		message = MessageFor(code)
	}
	return &APIError{
		Message: message,
		Detail:  Detail{Code: code, Details: details},
		Status:  status,
	}
}

// Network wraps a transport-level failure where no response was received.
func Network(err error) *APIError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &APIError{
		Message: "Network error: please check your connection and try again",
		Detail:  Detail{Code: CodeNetworkError, Details: details},
	}
}

// FromBody normalizes a non-2xx response body. Unparseable bodies fall back
// to the generic shape so callers always observe the same structure.
func FromBody(status int, body []byte) *APIError {
	var parsed struct {
		Message string `json:"message"`
		Error   Detail `json:"error"`
	}
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil &&
		(parsed.Message != "" || parsed.Error.Code != "") {
		apiErr := &APIError{
			Message: parsed.Message,
			Detail:  parsed.Error,
			Status:  status,
		}
		if apiErr.Detail.Code == "" {
			apiErr.Detail.Code = CodeUnknown
		}
		if apiErr.Message == "" {
			apiErr.Message = MessageFor(apiErr.Detail.Code)
		}
		return apiErr
	}

	return &APIError{
		Message: http.StatusText(status),
		Detail:  Detail{Code: CodeUnknown},
		Status:  status,
	}
}

// Forbidden is the standardized 403 error. It never triggers a logout.
func Forbidden() *APIError {
	return New(http.StatusForbidden, "Access denied: you do not have permission to perform this action", CodeInsufficientPerms, "")
}

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNetwork reports whether err is a no-response transport failure.
func IsNetwork(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Detail.Code == CodeNetworkError
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status
	}
	return 0
}
