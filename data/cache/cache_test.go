package cache

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/paging"
	"github.com/ncobase/keyset/types"
	"github.com/redis/go-redis/v9"
)

type lookups struct {
	hits, misses atomic.Int32
}

func (l *lookups) RedisCommand(string, error) {}
func (l *lookups) CacheLookup(hit bool) {
	if hit {
		l.hits.Add(1)
	} else {
		l.misses.Add(1)
	}
}

func setup(t *testing.T) (*miniredis.Miniredis, *PageCache, *atomic.Int32, *lookups) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rc.Close() })

	calls := &atomic.Int32{}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	next := paging.ScannerFunc(func(ctx context.Context, q *paging.Query) ([]paging.Document, error) {
		calls.Add(1)
		return []paging.Document{{"id": 2, "createdAt": at, "name": "b"}, {"id": 1, "createdAt": at}}, nil
	})
	l := &lookups{}
	return mr, New(rc, next, &config.Cache{TTL: time.Minute, Prefix: "test:page"}, l), calls, l
}

func query(limit int) *paging.Query {
	return &paging.Query{
		Filter: paging.AllOf(paging.Eq("name", "b"), paging.Lt("id", 5)),
		Sort:   []paging.SortKey{{Field: "id", Order: types.Descending}},
		Limit:  limit,
	}
}

func TestScanReadThrough(t *testing.T) {
	mr, c, calls, l := setup(t)
	ctx := context.Background()

	first, err := c.Scan(ctx, query(3))
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Scan(ctx, query(3))
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 {
		t.Errorf("scanner called %d times, want 1", calls.Load())
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached window differs:\n%v\n%v", first, second)
	}
	if l.hits.Load() != 1 || l.misses.Load() != 1 {
		t.Errorf("hits=%d misses=%d", l.hits.Load(), l.misses.Load())
	}

	key, _ := c.Key(query(3))
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := c.Scan(ctx, query(3)); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("expired window not refreshed, calls = %d", calls.Load())
	}
}

func TestKeyDistinguishesQueries(t *testing.T) {
	_, c, _, _ := setup(t)

	a, _ := c.Key(query(3))
	b, _ := c.Key(query(4))
	if a == b {
		t.Error("limit not part of the key")
	}
	if !strings.HasPrefix(a, "test:page:") {
		t.Errorf("key %q lacks prefix", a)
	}

	// int and string values with the same text are different filters
	x, _ := c.Key(&paging.Query{Filter: paging.Eq("id", 1)})
	y, _ := c.Key(&paging.Query{Filter: paging.Eq("id", "1")})
	if x == y {
		t.Error("value type not part of the key")
	}
}

func TestInvalidate(t *testing.T) {
	mr, c, calls, _ := setup(t)
	ctx := context.Background()

	_, _ = c.Scan(ctx, query(3))
	_, _ = c.Scan(ctx, query(4))
	mr.Set("other", "kept")

	if err := c.Invalidate(ctx); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("other") {
		t.Error("key outside the prefix was removed")
	}
	_, _ = c.Scan(ctx, query(3))
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestCorruptEntryFallsThrough(t *testing.T) {
	mr, c, calls, _ := setup(t)
	key, _ := c.Key(query(3))
	mr.Set(key, "not json")

	docs, err := c.Scan(context.Background(), query(3))
	if err != nil || len(docs) != 2 {
		t.Fatalf("Scan = %v, %v", docs, err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRedisDownFallsThrough(t *testing.T) {
	mr, c, calls, _ := setup(t)
	mr.Close()

	docs, err := c.Scan(context.Background(), query(3))
	if err != nil || len(docs) != 2 {
		t.Fatalf("Scan = %v, %v", docs, err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestScanErrorNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rc.Close()

	fail := errors.New("store down")
	c := New(rc, paging.ScannerFunc(func(context.Context, *paging.Query) ([]paging.Document, error) {
		return nil, fail
	}), nil, nil)

	if _, err := c.Scan(context.Background(), query(3)); !errors.Is(err, fail) {
		t.Fatalf("err = %v", err)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("keys = %v, want none", keys)
	}
}
