package ecode

import (
	"net/http"
	"testing"
)

func TestText(t *testing.T) {
	if got := Text(CursorErr); got != "Invalid cursor" {
		t.Errorf("Text(CursorErr) = %q", got)
	}
	if got := Text(-9999); got != Text(ServerErr) {
		t.Errorf("Text(unknown) = %q, want server error message", got)
	}
}

func TestToHTTPStatus(t *testing.T) {
	if got := ToHTTPStatus(ParamErr); got != http.StatusBadRequest {
		t.Errorf("ToHTTPStatus(ParamErr) = %d", got)
	}
	if got := ToHTTPStatus(Deadline); got != http.StatusGatewayTimeout {
		t.Errorf("ToHTTPStatus(Deadline) = %d", got)
	}
	if got := ToHTTPStatus(-9999); got != http.StatusInternalServerError {
		t.Errorf("ToHTTPStatus(unknown) = %d", got)
	}
}

func TestRegister(t *testing.T) {
	Register(-1001, "Collection is read only", http.StatusConflict)
	if Text(-1001) != "Collection is read only" {
		t.Errorf("Text after Register = %q", Text(-1001))
	}
	if ToHTTPStatus(-1001) != http.StatusConflict {
		t.Errorf("ToHTTPStatus after Register = %d", ToHTTPStatus(-1001))
	}
}

func TestFieldMessages(t *testing.T) {
	if got := FieldIsInvalid("limit"); got != "limit invalid" {
		t.Errorf("FieldIsInvalid = %q", got)
	}
	if got := FieldIsRequired(); got != "empty" {
		t.Errorf("FieldIsRequired() = %q", got)
	}
}
