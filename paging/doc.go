// Package paging implements keyset (cursor) pagination over any store that
// can run a filtered, sorted and limited scan.
//
// Keyset pagination resumes after the last seen (sort value, id) pair instead
// of skipping N rows, so pages stay stable while records are inserted or
// deleted elsewhere in the collection.
//
// # Basic Usage
//
// Build a Paginator over a Scanner:
//
//	p, err := paging.New(store, paging.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	page, err := p.PaginateByField(ctx, paging.ByFieldOptions{
//	    SortField: "createdAt",
//	    Limit:     20,
//	})
//	// page.Pagination.NextCursor resumes the walk
//
// Connection style pagination walks both ways:
//
//	first := 10
//	conn, err := p.BidirectionalPaginate(ctx, paging.ConnectionArgs{First: &first})
//
//	last := 10
//	prev, err := p.BidirectionalPaginate(ctx, paging.ConnectionArgs{
//	    Before: conn.PageInfo.StartCursor,
//	    Last:   &last,
//	})
//
// After pairs with First and Before pairs with Last; other combinations are
// rejected with ErrInvalidArguments.
//
// # Cursors
//
// Cursors are base64url encoded, typed JSON envelopes holding the identity,
// the sort field and its value. With Config.CursorSecret set they are signed
// with a keyed BLAKE2b MAC. Undecodable or tampered tokens fail with
// ErrInvalidCursor.
//
// # Filters
//
// Extra filters are expressions built from Cmp, And and Or:
//
//	filter := paging.AllOf(paging.Eq("status", "active"), paging.Gt("score", 10))
//
// # Errors
//
//   - ErrInvalidCursor: token cannot be decoded or belongs to another ordering
//   - ErrInvalidArguments: bad limits, sort fields or argument combinations
//   - ErrStorage: the Scanner failed; the cause stays reachable via errors.Is
package paging
