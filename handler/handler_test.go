package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/data/memory"
	"github.com/ncobase/keyset/ecode"
	"github.com/ncobase/keyset/paging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testFields = []*config.Field{
	{Name: "id", Type: config.FieldInt},
	{Name: "createdAt", Type: config.FieldTime},
	{Name: "score", Type: config.FieldInt},
	{Name: "name", Type: config.FieldString},
}

type healthStub map[string]any

func (h healthStub) Health(context.Context) map[string]any { return h }

func newEngine(t *testing.T, opts ...Option) *gin.Engine {
	t.Helper()
	store := memory.New("id")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 25; i++ {
		doc := paging.Document{"id": i, "createdAt": base.Add(time.Duration(i) * time.Minute), "score": i % 3}
		if err := store.Insert(context.Background(), doc); err != nil {
			t.Fatal(err)
		}
	}
	cfg := paging.DefaultConfig()
	cfg.IDField = "id"
	p, err := paging.New(store, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine(New(p, testFields, opts...))
}

type listBody struct {
	Data       []map[string]any `json:"data"`
	Pagination struct {
		HasMore    bool   `json:"has_more"`
		NextCursor string `json:"next_cursor"`
		Limit      int    `json:"limit"`
		Count      int    `json:"count"`
		SortField  string `json:"sort_field"`
		Direction  string `json:"direction"`
	} `json:"pagination"`
}

type connBody struct {
	Data     []map[string]any `json:"data"`
	PageInfo struct {
		HasNextPage     bool   `json:"has_next_page"`
		HasPreviousPage bool   `json:"has_previous_page"`
		StartCursor     string `json:"start_cursor"`
		EndCursor       string `json:"end_cursor"`
	} `json:"page_info"`
}

type errorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func get(t *testing.T, e *gin.Engine, target string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v\n%s", target, err, rec.Body.String())
		}
	}
	return rec.Code
}

func ids(data []map[string]any) []int {
	out := make([]int, len(data))
	for i, d := range data {
		out[i] = int(d["id"].(float64))
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func seq(from, to int) []int {
	var out []int
	for i := from; i >= to; i-- {
		out = append(out, i)
	}
	return out
}

func TestListByIDWalk(t *testing.T) {
	e := newEngine(t)
	wants := [][]int{seq(25, 16), seq(15, 6), seq(5, 1)}

	cursor := ""
	for i, want := range wants {
		target := "/api/v1/records?limit=10"
		if cursor != "" {
			target += "&cursor=" + url.QueryEscape(cursor)
		}
		var body listBody
		if code := get(t, e, target, &body); code != http.StatusOK {
			t.Fatalf("page %d: status %d", i, code)
		}
		if got := ids(body.Data); !equalInts(got, want) {
			t.Fatalf("page %d = %v, want %v", i, got, want)
		}
		last := i == len(wants)-1
		if body.Pagination.HasMore == last {
			t.Errorf("page %d: has_more = %v", i, body.Pagination.HasMore)
		}
		if last && body.Pagination.NextCursor != "" {
			t.Errorf("last page carries a next cursor")
		}
		cursor = body.Pagination.NextCursor
	}
}

func TestListByFieldWithFilter(t *testing.T) {
	e := newEngine(t)
	var body listBody
	code := get(t, e, "/api/v1/records/by-field?sort_field=createdAt&direction=asc&limit=3&filter[score]=0", &body)
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if got := ids(body.Data); !equalInts(got, []int{3, 6, 9}) {
		t.Errorf("ids = %v", got)
	}
	if body.Pagination.SortField != "createdAt" || body.Pagination.Direction != "asc" {
		t.Errorf("pagination = %+v", body.Pagination)
	}
}

func TestConnection(t *testing.T) {
	e := newEngine(t)

	var first connBody
	if code := get(t, e, "/api/v1/records/connection?first=5", &first); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if got := ids(first.Data); !equalInts(got, seq(25, 21)) {
		t.Fatalf("first page = %v", got)
	}
	if !first.PageInfo.HasNextPage || first.PageInfo.HasPreviousPage {
		t.Errorf("page info = %+v", first.PageInfo)
	}

	var next connBody
	get(t, e, "/api/v1/records/connection?first=5&after="+url.QueryEscape(first.PageInfo.EndCursor), &next)
	if got := ids(next.Data); !equalInts(got, seq(20, 16)) {
		t.Fatalf("second page = %v", got)
	}

	var back connBody
	get(t, e, "/api/v1/records/connection?last=5&before="+url.QueryEscape(next.PageInfo.StartCursor), &back)
	if got := ids(back.Data); !equalInts(got, seq(25, 21)) {
		t.Fatalf("backward page = %v", got)
	}
	if back.PageInfo.HasPreviousPage || !back.PageInfo.HasNextPage {
		t.Errorf("backward page info = %+v", back.PageInfo)
	}
}

func TestRejectsBadArguments(t *testing.T) {
	e := newEngine(t)
	tests := []struct {
		target string
		field  string
		code   int
	}{
		{"/api/v1/records?bogus=1", "bogus", ecode.ParamErr},
		{"/api/v1/records?limit=0", "limit", ecode.ParamErr},
		{"/api/v1/records?limit=ten", "limit", ecode.ParamErr},
		{"/api/v1/records?limit=1&limit=2", "limit", ecode.ParamErr},
		{"/api/v1/records?filter[color]=red", "filter[color]", ecode.ParamErr},
		{"/api/v1/records?filter[score]=high", "filter[score]", ecode.ParamErr},
		{"/api/v1/records/connection?first=2&before=abc", "before", ecode.ParamErr},
		{"/api/v1/records/connection", "first", ecode.ParamErr},
		{"/api/v1/records/by-field?direction=sideways", "direction", ecode.ParamErr},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var body errorBody
			if code := get(t, e, tt.target, &body); code != http.StatusBadRequest {
				t.Fatalf("status = %d", code)
			}
			if body.Code != tt.code {
				t.Errorf("code = %d, want %d", body.Code, tt.code)
			}
			if _, ok := body.Errors[tt.field]; !ok {
				t.Errorf("errors = %v, want entry for %q", body.Errors, tt.field)
			}
		})
	}
}

func TestRejectsBadCursor(t *testing.T) {
	e := newEngine(t)
	var body errorBody
	if code := get(t, e, "/api/v1/records?cursor=not-a-cursor", &body); code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}
	if body.Code != ecode.CursorErr {
		t.Errorf("code = %d, want %d", body.Code, ecode.CursorErr)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("keyset_up 1\n"))
	})
	e := newEngine(t, WithHealth(healthStub{"status": "degraded"}), WithMetrics(metrics))

	var report map[string]any
	if code := get(t, e, "/healthz", &report); code != http.StatusServiceUnavailable {
		t.Errorf("healthz status = %d", code)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "keyset_up 1\n" {
		t.Errorf("metrics = %d %q", rec.Code, rec.Body.String())
	}

	if code := get(t, e, "/nope", nil); code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", code)
	}
}

func TestTraceHeader(t *testing.T) {
	e := newEngine(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Trace-Id", "abc123")
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Trace-Id"); got != "abc123" {
		t.Errorf("trace header = %q", got)
	}
}
