package paging

import (
	"context"
	"errors"

	"github.com/ncobase/keyset/logging/logger"
	"github.com/ncobase/keyset/types"
	"github.com/ncobase/keyset/validation/validator"
)

// Operation names used in errors, logs and metrics.
const (
	OpByID          = "paginate_by_id"
	OpByField       = "paginate_by_field"
	OpBidirectional = "bidirectional_paginate"
)

// Pagination is the metadata of an identity or sort field page.
type Pagination struct {
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
	Limit      int    `json:"limit"`
	Count      int    `json:"count"`
}

// FieldPagination adds the effective ordering to Pagination.
type FieldPagination struct {
	Pagination
	SortField string      `json:"sort_field"`
	Direction types.Order `json:"direction"`
}

// IDPage is the result of PaginateByID.
type IDPage struct {
	Data       []Document `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// FieldPage is the result of PaginateByField.
type FieldPage struct {
	Data       []Document      `json:"data"`
	Pagination FieldPagination `json:"pagination"`
}

// PageInfo is the metadata of a connection page.
type PageInfo struct {
	HasNextPage     bool   `json:"has_next_page"`
	HasPreviousPage bool   `json:"has_previous_page"`
	StartCursor     string `json:"start_cursor,omitempty"`
	EndCursor       string `json:"end_cursor,omitempty"`
}

// Connection is the result of BidirectionalPaginate.
type Connection struct {
	Data     []Document `json:"data"`
	PageInfo PageInfo   `json:"page_info"`
}

// Paginator serves keyset pages from a Scanner. It holds no mutable state
// and is safe for concurrent use.
type Paginator struct {
	cfg      Config
	codec    *Codec
	sortable map[string]struct{}
	asm      assembler
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithObserver reports every storage round trip to o.
func WithObserver(o Observer) Option {
	return func(p *Paginator) { p.asm.observer = o }
}

// New returns a Paginator over scanner. A nil cfg uses DefaultConfig.
func New(scanner Scanner, cfg *Config, opts ...Option) (*Paginator, error) {
	if scanner == nil {
		return nil, errors.New("paging: nil scanner")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Paginator{
		cfg:   *cfg,
		codec: NewCodec(cfg.IDField, cfg.CursorSecret),
	}
	p.cfg.SortableFields = append([]string(nil), cfg.SortableFields...)
	if len(cfg.SortableFields) > 0 {
		p.sortable = make(map[string]struct{}, len(cfg.SortableFields)+1)
		for _, f := range cfg.SortableFields {
			p.sortable[f] = struct{}{}
		}
		p.sortable[cfg.IDField] = struct{}{}
	}
	p.asm = assembler{scanner: scanner, codec: p.codec}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Codec returns the cursor codec used by p.
func (p *Paginator) Codec() *Codec { return p.codec }

// Config returns a copy of the effective configuration.
func (p *Paginator) Config() Config { return p.cfg }

// PaginateByID pages by identity alone.
func (p *Paginator) PaginateByID(ctx context.Context, opts ByIDOptions) (*IDPage, error) {
	fields := validator.ValidateStruct(&opts)
	limit := p.limit(opts.Limit, fields, "limit")
	p.checkFilter(opts.Filter, fields)
	if err := invalidArguments(fields); err != nil {
		return nil, err
	}

	cur, err := p.decode(opts.Cursor, "")
	if err != nil {
		return nil, err
	}
	order := orderOrDefault(opts.Direction)
	q, err := BuildQuery(QueryParams{
		Cursor:  cur,
		IDField: p.cfg.IDField,
		Order:   order,
		Filter:  opts.Filter,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	w, err := p.asm.assemble(ctx, OpByID, q, false, "")
	if err != nil {
		return nil, err
	}
	page := &IDPage{
		Data:       w.docs,
		Pagination: p.pagination(w, limit),
	}
	logger.Debug(ctx, "paginate", "op", OpByID, "limit", limit, "count", len(w.docs))
	return page, nil
}

// PaginateByField pages by a sort field with identity as tie-breaker.
func (p *Paginator) PaginateByField(ctx context.Context, opts ByFieldOptions) (*FieldPage, error) {
	fields := validator.ValidateStruct(&opts)
	limit := p.limit(opts.Limit, fields, "limit")
	sortField := p.sortField(opts.SortField, fields)
	p.checkFilter(opts.Filter, fields)
	if err := invalidArguments(fields); err != nil {
		return nil, err
	}

	cur, err := p.decode(opts.Cursor, sortField)
	if err != nil {
		return nil, err
	}
	order := orderOrDefault(opts.Direction)
	q, err := BuildQuery(QueryParams{
		Cursor:    cur,
		SortField: sortField,
		IDField:   p.cfg.IDField,
		Order:     order,
		Filter:    opts.Filter,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	w, err := p.asm.assemble(ctx, OpByField, q, false, sortField)
	if err != nil {
		return nil, err
	}
	page := &FieldPage{
		Data: w.docs,
		Pagination: FieldPagination{
			Pagination: p.pagination(w, limit),
			SortField:  sortField,
			Direction:  order,
		},
	}
	logger.Debug(ctx, "paginate", "op", OpByField, "limit", limit, "count", len(w.docs))
	return page, nil
}

// BidirectionalPaginate serves connection style pages. First (optionally
// with After) walks forward; Last (optionally with Before) returns the
// records immediately preceding the cursor, or the end of the ordering, in
// display order.
func (p *Paginator) BidirectionalPaginate(ctx context.Context, args ConnectionArgs) (*Connection, error) {
	if err := args.check(); err != nil {
		return nil, err
	}
	fields := map[string]string{}
	backward := args.Last != nil
	token, countName, count := args.After, "first", args.First
	if backward {
		token, countName, count = args.Before, "last", args.Last
	}
	limit := p.limit(types.ToValue(count), fields, countName)
	sortField := p.sortField(args.SortField, fields)
	p.checkFilter(args.Filter, fields)
	if err := invalidArguments(fields); err != nil {
		return nil, err
	}

	var cur *Cursor
	if token != "" {
		var err error
		if cur, err = p.decode(token, sortField); err != nil {
			return nil, err
		}
	}
	q, err := BuildQuery(QueryParams{
		Cursor:    cur,
		SortField: sortField,
		IDField:   p.cfg.IDField,
		Order:     orderOrDefault(args.Direction),
		Backward:  backward,
		Filter:    args.Filter,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	w, err := p.asm.assemble(ctx, OpBidirectional, q, backward, sortField)
	if err != nil {
		return nil, err
	}
	info := PageInfo{StartCursor: w.first, EndCursor: w.last}
	if backward {
		info.HasPreviousPage = w.hasMore
		info.HasNextPage = args.Before != ""
	} else {
		info.HasNextPage = w.hasMore
		info.HasPreviousPage = args.After != ""
	}
	logger.Debug(ctx, "paginate", "op", OpBidirectional, "limit", limit, "count", len(w.docs))
	return &Connection{Data: w.docs, PageInfo: info}, nil
}

func (p *Paginator) pagination(w *window, limit int) Pagination {
	pg := Pagination{HasMore: w.hasMore, Limit: limit, Count: len(w.docs)}
	if w.hasMore {
		pg.NextCursor = w.last
	}
	return pg
}

func (p *Paginator) limit(requested int, fields map[string]string, name string) int {
	limit, err := NormalizeLimit(requested, p.cfg.DefaultLimit, p.cfg.MaxLimit)
	if err != nil {
		if _, seen := fields[name]; !seen {
			fields[name] = err.Error()
		}
	}
	return limit
}

func (p *Paginator) sortField(requested string, fields map[string]string) string {
	if requested == "" {
		return p.cfg.DefaultSortField
	}
	if p.sortable != nil {
		if _, ok := p.sortable[requested]; !ok {
			fields["sort_field"] = "is not sortable"
		}
	}
	return requested
}

func (p *Paginator) checkFilter(e Expr, fields map[string]string) {
	if err := ValidateExpr(e); err != nil {
		fields["filter"] = err.Error()
	}
}

// decode parses a cursor token and checks it was issued for sortField.
func (p *Paginator) decode(token, sortField string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	cur, err := p.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	if cur.Field != sortField {
		return nil, cursorError("issued for another sort field")
	}
	return cur, nil
}

func orderOrDefault(o types.Order) types.Order {
	if o == "" {
		return types.Descending
	}
	return o
}
