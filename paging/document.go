package paging

import (
	"context"
	"strings"

	"github.com/ncobase/keyset/types"
)

// Document is a record as returned by the storage capability.
// The pagination engine only reads it.
type Document map[string]any

// Get returns the value stored under field. Dotted paths descend into nested
// documents.
func (d Document) Get(field string) (any, bool) {
	if v, ok := d[field]; ok {
		return v, true
	}
	if !strings.Contains(field, ".") {
		return nil, false
	}
	var cur any = map[string]any(d)
	for _, part := range strings.Split(field, ".") {
		var next any
		var ok bool
		switch m := cur.(type) {
		case Document:
			next, ok = m[part]
		case map[string]any:
			next, ok = m[part]
		default:
			return nil, false
		}
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// SortKey is one element of a sort specification.
type SortKey struct {
	Field string
	Order types.Order
}

// Query is what the storage capability executes: a filter, a sort
// specification and a row limit.
type Query struct {
	Filter Expr
	Sort   []SortKey
	Limit  int
}

// Scanner is the storage capability: run a filtered, sorted, limited scan and
// return the records in order. Implementations must honour ctx.
type Scanner interface {
	Scan(ctx context.Context, q *Query) ([]Document, error)
}

// ScannerFunc adapts a function to Scanner.
type ScannerFunc func(ctx context.Context, q *Query) ([]Document, error)

// Scan calls f.
func (f ScannerFunc) Scan(ctx context.Context, q *Query) ([]Document, error) {
	return f(ctx, q)
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
