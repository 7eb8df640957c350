// Package handler serves the paginator over HTTP with gin.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/net/resp"
	"github.com/ncobase/keyset/paging"
)

// HealthReporter reports the health of the data layer.
type HealthReporter interface {
	Health(ctx context.Context) map[string]any
}

// Handler handles record listing requests.
type Handler struct {
	paginator *paging.Paginator
	fields    map[string]string
	health    HealthReporter
	metrics   http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithHealth serves /healthz from h.
func WithHealth(h HealthReporter) Option {
	return func(hd *Handler) { hd.health = h }
}

// WithMetrics serves /metrics from m.
func WithMetrics(m http.Handler) Option {
	return func(hd *Handler) { hd.metrics = m }
}

// New creates a handler over p. fields lists the record fields that may be
// used in filter[<field>] parameters, with their types.
func New(p *paging.Paginator, fields []*config.Field, opts ...Option) *Handler {
	h := &Handler{paginator: p, fields: make(map[string]string, len(fields))}
	for _, f := range fields {
		h.fields[f.Name] = f.Type
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListByID handles GET /records.
func (h *Handler) ListByID(c *gin.Context) {
	q := newParams(c.Request.URL.Query(), h.fields, "cursor", "limit", "direction")
	opts := paging.ByIDOptions{
		Cursor:    q.str("cursor"),
		Limit:     q.limit("limit"),
		Direction: q.order("direction"),
		Filter:    q.filter(),
	}
	if err := q.err(); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}

	page, err := h.paginator.PaginateByID(c.Request.Context(), opts)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, page)
}

// ListByField handles GET /records/by-field.
func (h *Handler) ListByField(c *gin.Context) {
	q := newParams(c.Request.URL.Query(), h.fields, "cursor", "limit", "sort_field", "direction")
	opts := paging.ByFieldOptions{
		Cursor:    q.str("cursor"),
		Limit:     q.limit("limit"),
		SortField: q.str("sort_field"),
		Direction: q.order("direction"),
		Filter:    q.filter(),
	}
	if err := q.err(); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}

	page, err := h.paginator.PaginateByField(c.Request.Context(), opts)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, page)
}

// Connection handles GET /records/connection.
func (h *Handler) Connection(c *gin.Context) {
	q := newParams(c.Request.URL.Query(), h.fields, "after", "before", "first", "last", "sort_field", "direction")
	args := paging.ConnectionArgs{
		After:     q.str("after"),
		Before:    q.str("before"),
		First:     q.count("first"),
		Last:      q.count("last"),
		SortField: q.str("sort_field"),
		Direction: q.order("direction"),
		Filter:    q.filter(),
	}
	if err := q.err(); err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}

	conn, err := h.paginator.BidirectionalPaginate(c.Request.Context(), args)
	if err != nil {
		resp.Fail(c.Writer, resp.FromError(err))
		return
	}
	resp.Success(c.Writer, conn)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	if h.health == nil {
		resp.Success(c.Writer, map[string]any{"status": "healthy"})
		return
	}
	report := h.health.Health(c.Request.Context())
	if report["status"] != "healthy" {
		resp.WithStatusCode(c.Writer, http.StatusServiceUnavailable, report)
		return
	}
	resp.Success(c.Writer, report)
}
