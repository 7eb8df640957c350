// Package ecode defines standardized error codes for API responses.
//
// # Error Code Convention
//
//   - 0: Success (OK)
//   - -400 to -499: Request and resource errors
//   - -500+: Server errors
//
// Pagination specific codes:
//
//	ecode.ParamErr   // -401: conflicting or out of range pagination arguments
//	ecode.CursorErr  // -402: cursor token could not be decoded
//	ecode.ServerErr  // -500: storage failure
//	ecode.Deadline   // -504: storage call exceeded the caller's deadline
//
// # Getting Error Messages
//
//	message := ecode.Text(ecode.CursorErr)
//	// Returns: "Invalid cursor"
//
//	status := ecode.ToHTTPStatus(ecode.CursorErr)
//	// Returns: 400
//
// # Custom Error Codes
//
//	ecode.Register(-1001, "Collection is read only", http.StatusConflict)
package ecode
