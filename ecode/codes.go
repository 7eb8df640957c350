package ecode

import (
	"net/http"
	"sync"
)

// Common codes.
const (
	OK = 0

	// Application
	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504

	// Request
	RequestErr = -400
	ParamErr   = -401
	CursorErr  = -402

	// Resource
	AccessDenied = -403
	NotFound     = -404
	Conflict     = -409
)

var (
	mu       sync.RWMutex
	messages = map[int]string{
		OK:                 "ok",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		CursorErr:          "Invalid cursor",
		AccessDenied:       "Access denied",
		NotFound:           "Resource not found",
		Conflict:           "Resource conflict",
	}
	statuses = map[int]int{
		OK:                 http.StatusOK,
		ServerErr:          http.StatusInternalServerError,
		ServiceUnavailable: http.StatusServiceUnavailable,
		Deadline:           http.StatusGatewayTimeout,
		RequestErr:         http.StatusBadRequest,
		ParamErr:           http.StatusBadRequest,
		CursorErr:          http.StatusBadRequest,
		AccessDenied:       http.StatusForbidden,
		NotFound:           http.StatusNotFound,
		Conflict:           http.StatusConflict,
	}
)

// Register registers a custom code with its message and HTTP status.
// Registering an existing code overwrites it.
func Register(code int, message string, status ...int) {
	mu.Lock()
	defer mu.Unlock()
	messages[code] = message
	if len(status) > 0 {
		statuses[code] = status[0]
	}
}

// Text returns the message for code, or the server error message for unknown codes.
func Text(code int) string {
	mu.RLock()
	defer mu.RUnlock()
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}

// ToHTTPStatus maps a code to an HTTP status.
func ToHTTPStatus(code int) int {
	mu.RLock()
	defer mu.RUnlock()
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
