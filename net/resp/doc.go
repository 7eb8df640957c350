// Package resp provides standardized JSON response helpers for the HTTP
// surface.
//
// # Response Structure
//
// Successful responses carry the payload as is. Failures follow a standard
// structure:
//
//	{
//	  "code": -402,              // Business error code
//	  "message": "Invalid cursor",
//	  "errors": {...}            // Details, such as offending fields
//	}
//
// # Success Responses
//
//	resp.Success(w, page)
//	resp.Success(w, "Operation completed")
//	resp.WithStatusCode(w, http.StatusCreated, created)
//
// # Error Responses
//
//	resp.Fail(w, resp.BadRequest("limit must be positive"))
//	resp.Fail(w, resp.FromError(err))
//
// FromError maps pagination errors to business codes: invalid cursors and
// invalid arguments become 400 responses, storage failures 503, and
// deadlines 504.
//
// # Error Codes
//
// Business error codes are defined in the ecode package.
package resp
