package metrics

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// CacheMetricsCollector for Redis cache operations
type CacheMetricsCollector interface {
	RedisCommand(command string, err error)
	CacheLookup(hit bool)
}

// Hook reports every command run by a Redis client to a collector.
type Hook struct {
	collector CacheMetricsCollector
}

// NewHook creates a redis.Hook backed by collector.
func NewHook(collector CacheMetricsCollector) *Hook {
	return &Hook{collector: collector}
}

var _ redis.Hook = (*Hook)(nil)

func (h *Hook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		h.collector.RedisCommand(cmd.Name(), ignoreNil(err))
		return err
	}
}

func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		for _, cmd := range cmds {
			h.collector.RedisCommand(cmd.Name(), ignoreNil(cmd.Err()))
		}
		return err
	}
}

// ignoreNil treats a missing key as a successful command.
func ignoreNil(err error) error {
	if err == redis.Nil {
		return nil
	}
	return err
}
