package resp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ncobase/keyset/ecode"
	"github.com/ncobase/keyset/paging"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    `json:"status,omitempty"`  // HTTP status
	Code    int    `json:"code,omitempty"`    // Business code
	Message string `json:"message,omitempty"` // Message
	Errors  any    `json:"errors,omitempty"`  // Validation errors
	Data    any    `json:"data,omitempty"`    // Response data
}

func (e *Exception) Error() string {
	return e.Message
}

// newException creates an exception for code with its HTTP status.
func newException(code int, message string, details ...any) *Exception {
	if message == "" {
		message = ecode.Text(code)
	}
	e := &Exception{
		Status:  ecode.ToHTTPStatus(code),
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		e.Errors = details[0]
	}
	return e
}

// BadRequest returns a 400 exception.
func BadRequest(message string, details ...any) *Exception {
	return newException(ecode.RequestErr, message, details...)
}

// NotFound returns a 404 exception.
func NotFound(message string) *Exception {
	return newException(ecode.NotFound, message)
}

// InternalServer returns a 500 exception.
func InternalServer(message string) *Exception {
	return newException(ecode.ServerErr, message)
}

// ServiceUnavailable returns a 503 exception.
func ServiceUnavailable(message string, details ...any) *Exception {
	return newException(ecode.ServiceUnavailable, message, details...)
}

// FromError maps err to an exception. Pagination errors keep their kind;
// anything else is an internal error whose message is not exposed.
func FromError(err error) *Exception {
	var ex *Exception
	var args *paging.InvalidArgumentsError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ex):
		return ex
	case errors.Is(err, paging.ErrInvalidCursor):
		return newException(ecode.CursorErr, err.Error())
	case errors.As(err, &args):
		return newException(ecode.ParamErr, "", args.Fields)
	case errors.Is(err, paging.ErrInvalidArguments):
		return newException(ecode.ParamErr, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newException(ecode.Deadline, "")
	case errors.Is(err, paging.ErrStorage):
		return newException(ecode.ServiceUnavailable, "")
	}
	return newException(ecode.ServerErr, "")
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with custom status code. A string
// payload is sent as {"message": ...}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var body any = map[string]any{"message": "ok"}
	if len(data) > 0 && data[0] != nil {
		body = data[0]
		if msg, ok := body.(string); ok {
			body = map[string]any{"message": msg}
		}
	}
	writeJSON(w, statusCode, body)
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer("")
	}
	status, body := buildFailureResponse(r)
	writeJSON(w, status, body)
}

// buildFailureResponse builds the failure response.
func buildFailureResponse(r *Exception) (int, *Exception) {
	status := http.StatusBadRequest
	code := ecode.RequestErr
	message := ecode.Text(code)

	if r.Status != 0 {
		status = r.Status
	}
	if r.Code != 0 {
		code = r.Code
	}
	if r.Message != "" {
		message = r.Message
	}

	return status, &Exception{
		Code:    code,
		Message: message,
		Errors:  r.Errors,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
