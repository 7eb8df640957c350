// Package validator wraps go-playground/validator with friendly, localized
// messages keyed by JSON field name, plus a "fieldname" tag that accepts only
// plain (optionally dotted) record field names.
package validator
