package paging

import "github.com/ncobase/keyset/types"

// QueryParams is the input of BuildQuery.
type QueryParams struct {
	// Cursor is the position to resume after; nil starts at the beginning.
	Cursor *Cursor
	// SortField is the primary sort field. Empty, or equal to IDField, means
	// identity-only ordering.
	SortField string
	IDField   string
	// Order is the display order. Backward scans run in the opposite order.
	Order    types.Order
	Backward bool
	Filter   Expr
	Limit    int
}

// ScanOrder returns the order the store scans in.
func (p *QueryParams) ScanOrder() types.Order {
	if p.Backward {
		return p.Order.Reverse()
	}
	return p.Order
}

func (p *QueryParams) identityOnly() bool {
	return p.SortField == "" || p.SortField == p.IDField
}

// BuildQuery turns pagination parameters into the keyset query that fetches
// the window strictly after the cursor in scan order. It never touches a
// store.
func BuildQuery(p QueryParams) (*Query, error) {
	fields := map[string]string{}
	if p.IDField == "" {
		fields["id_field"] = "is required"
	}
	if !p.Order.Valid() {
		fields["direction"] = "must be asc or desc"
	}
	if p.Limit <= 0 {
		fields["limit"] = "must be positive"
	}
	if err := ValidateExpr(p.Filter); err != nil {
		fields["filter"] = err.Error()
	}
	if err := invalidArguments(fields); err != nil {
		return nil, err
	}

	scan := p.ScanOrder()
	q := &Query{Limit: p.Limit}
	if p.identityOnly() {
		q.Sort = []SortKey{{Field: p.IDField, Order: scan}}
	} else {
		q.Sort = []SortKey{{Field: p.SortField, Order: scan}, {Field: p.IDField, Order: scan}}
	}

	keyset, err := keysetFilter(&p, scan)
	if err != nil {
		return nil, err
	}
	q.Filter = AllOf(p.Filter, keyset)
	return q, nil
}

func keysetFilter(p *QueryParams, scan types.Order) (Expr, error) {
	if p.Cursor == nil {
		return nil, nil
	}
	if p.Cursor.ID == nil {
		return nil, cursorError("missing identity")
	}

	cmp := OpGt
	if scan == types.Descending {
		cmp = OpLt
	}
	after := Cmp{Field: p.IDField, Op: cmp, Value: p.Cursor.ID}
	if p.identityOnly() {
		return after, nil
	}
	if p.Cursor.Field != p.SortField {
		return nil, cursorError("issued for another sort field")
	}

	v := p.Cursor.Value
	return Or{
		Cmp{Field: p.SortField, Op: cmp, Value: v},
		And{Eq(p.SortField, v), after},
	}, nil
}
