package ecode

import (
	"fmt"
)

const (
	emptyMsg     = "empty"
	requiredMsg  = "required"
	invalidMsg   = "invalid"
	conflictMsg  = "cannot be combined with"
	unsupportMsg = "is not supported"
	malformedMsg = "malformed"
	positiveMsg  = "must be positive"
)

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], requiredMsg)
	}
	return emptyMsg
}

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], invalidMsg)
	}
	return invalidMsg
}

// FieldNotPositive returns a message for a non-positive count
func FieldNotPositive(k string) string {
	return fmt.Sprintf("%s %s", k, positiveMsg)
}

// FieldsConflict returns a message for two mutually exclusive fields
func FieldsConflict(a, b string) string {
	return fmt.Sprintf("%s %s %s", a, conflictMsg, b)
}

// FieldUnsupported returns a message for an unknown or disallowed field
func FieldUnsupported(k string) string {
	return fmt.Sprintf("%s %s", k, unsupportMsg)
}

// Malformed returns a malformed message
func Malformed(k ...string) string {
	if len(k) > 0 {
		return fmt.Sprintf("%s %s", k[0], malformedMsg)
	}
	return malformedMsg
}
