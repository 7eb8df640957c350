// Package cache keeps recently scanned windows in Redis for a short time.
//
// A PageCache decorates a paging.Scanner. Identical queries (same filter,
// sort and limit) within the TTL are answered from Redis. Cached windows may
// be stale by up to the TTL; Invalidate drops them after writes.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/data/metrics"
	"github.com/ncobase/keyset/logging/logger"
	"github.com/ncobase/keyset/paging"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// Defaults used when the configuration leaves them empty.
const (
	DefaultTTL    = 5 * time.Second
	DefaultPrefix = "keyset:page"
)

// PageCache is a read-through cache in front of a Scanner.
type PageCache struct {
	rc        redis.Cmdable
	next      paging.Scanner
	ttl       time.Duration
	prefix    string
	collector metrics.CacheMetricsCollector
}

// New wraps next. A nil cfg uses the defaults and a nil collector discards
// lookup metrics.
func New(rc redis.Cmdable, next paging.Scanner, cfg *config.Cache, collector metrics.CacheMetricsCollector) *PageCache {
	c := &PageCache{
		rc:        rc,
		next:      next,
		ttl:       DefaultTTL,
		prefix:    DefaultPrefix,
		collector: collector,
	}
	if cfg != nil {
		if cfg.TTL > 0 {
			c.ttl = cfg.TTL
		}
		if cfg.Prefix != "" {
			c.prefix = cfg.Prefix
		}
	}
	if c.collector == nil {
		c.collector = metrics.NoOpCollector{}
	}
	return c
}

// Scan implements paging.Scanner. Cache failures are logged and the query
// falls through to the wrapped scanner.
func (c *PageCache) Scan(ctx context.Context, q *paging.Query) ([]paging.Document, error) {
	key, err := c.Key(q)
	if err != nil {
		logger.Warnf(ctx, "page cache: cannot fingerprint query: %v", err)
		return c.next.Scan(ctx, q)
	}

	docs, err := c.get(ctx, key)
	switch {
	case err == nil:
		c.collector.CacheLookup(true)
		return docs, nil
	case !errors.Is(err, redis.Nil):
		logger.Warnf(ctx, "page cache: get %s: %v", key, err)
	}
	c.collector.CacheLookup(false)

	docs, err = c.next.Scan(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := c.set(ctx, key, docs); err != nil {
		logger.Warnf(ctx, "page cache: set %s: %v", key, err)
	}
	return docs, nil
}

func (c *PageCache) get(ctx context.Context, key string) ([]paging.Document, error) {
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var rows []map[string]paging.TypedValue
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	docs := make([]paging.Document, len(rows))
	for i, row := range rows {
		if docs[i], err = paging.DecodeDocument(row); err != nil {
			return nil, fmt.Errorf("failed to decode cached record: %w", err)
		}
	}
	return docs, nil
}

func (c *PageCache) set(ctx context.Context, key string, docs []paging.Document) error {
	rows := make([]map[string]paging.TypedValue, len(docs))
	for i, d := range docs {
		row, err := paging.EncodeDocument(d)
		if err != nil {
			return err
		}
		rows[i] = row
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return c.rc.Set(ctx, key, b, c.ttl).Err()
}

// Invalidate drops every cached window under the prefix.
func (c *PageCache) Invalidate(ctx context.Context) error {
	iter := c.rc.Scan(ctx, 0, c.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rc.Del(ctx, keys...).Err()
}

// Key returns the cache key of q: the prefix and a BLAKE2b digest of the
// typed query fingerprint.
func (c *PageCache) Key(q *paging.Query) (string, error) {
	fp, err := fingerprint(q)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(fp)
	return c.prefix + ":" + hex.EncodeToString(sum[:]), nil
}

type fpExpr struct {
	Op    string             `json:"o"`
	Field string             `json:"f,omitempty"`
	Value *paging.TypedValue `json:"v,omitempty"`
	Args  []fpExpr           `json:"a,omitempty"`
}

type fpQuery struct {
	Filter *fpExpr  `json:"filter"`
	Sort   []string `json:"sort"`
	Limit  int      `json:"limit"`
}

func fingerprint(q *paging.Query) ([]byte, error) {
	out := fpQuery{Limit: q.Limit, Sort: make([]string, len(q.Sort))}
	for i, k := range q.Sort {
		out.Sort[i] = k.Field + ":" + string(k.Order)
	}
	if q.Filter != nil {
		f, err := fingerprintExpr(q.Filter)
		if err != nil {
			return nil, err
		}
		out.Filter = &f
	}
	return json.Marshal(out)
}

func fingerprintExpr(e paging.Expr) (fpExpr, error) {
	switch x := e.(type) {
	case paging.Cmp:
		tv, err := paging.EncodeValue(x.Value)
		if err != nil {
			return fpExpr{}, err
		}
		return fpExpr{Op: string(x.Op), Field: x.Field, Value: &tv}, nil
	case paging.And:
		return fingerprintJunction("and", x)
	case paging.Or:
		return fingerprintJunction("or", x)
	}
	return fpExpr{}, fmt.Errorf("unsupported expression %T", e)
}

func fingerprintJunction(op string, exprs []paging.Expr) (fpExpr, error) {
	out := fpExpr{Op: op, Args: make([]fpExpr, len(exprs))}
	for i, e := range exprs {
		f, err := fingerprintExpr(e)
		if err != nil {
			return fpExpr{}, err
		}
		out.Args[i] = f
	}
	return out, nil
}
