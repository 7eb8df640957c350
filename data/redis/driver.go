// Package redis opens the Redis client backing the page cache.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/keyset/data/config"
	"github.com/redis/go-redis/v9"
)

// ErrNoAddress is returned when the configuration carries no address.
var ErrNoAddress = errors.New("redis: address is empty")

// Options converts cfg into client options.
func Options(cfg *config.Redis) (*redis.Options, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, ErrNoAddress
	}
	return &redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Db,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
	}, nil
}

// Connect creates a client, installs hooks and pings the server.
func Connect(ctx context.Context, cfg *config.Redis, hooks ...redis.Hook) (*redis.Client, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	for _, h := range hooks {
		client.AddHook(h)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}
	return client, nil
}
