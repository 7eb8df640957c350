package data

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ncobase/keyset/data/cache"
	"github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/data/metrics"
	redisconn "github.com/ncobase/keyset/data/redis"
	"github.com/ncobase/keyset/logging/logger"
	"github.com/ncobase/keyset/paging"
	"github.com/redis/go-redis/v9"
)

// Data represents the data layer: the record store, the optional Redis page
// cache and the metrics collector they report to.
type Data struct {
	Store Store
	Redis *redis.Client
	Cache *cache.PageCache

	scanner   paging.Scanner
	collector metrics.Collector
	health    *metrics.HealthMonitor

	mu     sync.Mutex
	closed bool
}

// Option function type for configuring Data
type Option func(*Data)

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector metrics.Collector) Option {
	return func(d *Data) {
		if collector != nil {
			d.collector = collector
		}
	}
}

// WithStore uses an already opened store instead of opening cfg.Driver.
func WithStore(store Store) Option {
	return func(d *Data) {
		d.Store = store
	}
}

// New creates the data layer described by cfg. The returned cleanup closes
// every connection.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Data, func(), error) {
	d := &Data{collector: metrics.NoOpCollector{}}
	for _, opt := range opts {
		opt(d)
	}

	if d.Store == nil {
		store, err := Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		d.Store = store
	}
	d.scanner = metrics.WrapScanner(d.Store, cfg.Driver, d.collector)

	d.health = metrics.NewHealthMonitor(d.collector)
	d.health.RegisterComponent(metrics.CheckerFunc(cfg.Driver, d.Store.Ping))

	if cfg.Cache != nil && cfg.Cache.Enabled {
		client, err := redisconn.Connect(ctx, cfg.Redis, metrics.NewHook(d.collector))
		if err != nil {
			_ = d.Store.Close(ctx)
			return nil, nil, fmt.Errorf("data: page cache: %w", err)
		}
		d.Redis = client
		d.Cache = cache.New(client, d.scanner, cfg.Cache, d.collector)
		d.scanner = d.Cache
		d.health.RegisterComponent(metrics.CheckerFunc("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	}

	cleanup := func() {
		if err := d.Close(context.Background()); err != nil {
			logger.Errorf(context.Background(), "data cleanup: %v", err)
		}
	}
	return d, cleanup, nil
}

// Scanner returns the scanner the paginator should use: the store, behind
// the page cache when it is enabled.
func (d *Data) Scanner() paging.Scanner {
	return d.scanner
}

// Collector returns the metrics collector
func (d *Data) Collector() metrics.Collector {
	return d.collector
}

// Insert adds records and drops cached windows.
func (d *Data) Insert(ctx context.Context, docs ...paging.Document) error {
	if err := d.Store.Insert(ctx, docs...); err != nil {
		return err
	}
	if d.Cache != nil {
		if err := d.Cache.Invalidate(ctx); err != nil {
			logger.Warnf(ctx, "page cache invalidation failed: %v", err)
		}
	}
	return nil
}

// Close closes all data connections
func (d *Data) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	return errors.Join(errs...)
}
