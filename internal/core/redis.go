// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/releasetrack/internal/config"
)

// Redis wraps the shared client backing the rate limiter and the readiness
// probe. The connection URL comes from config; pool shaping and the ping
// deadline are layered on top of whatever the URL resolves to.
type Redis struct {
	Client      *redis.Client
	pingTimeout time.Duration
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	r := &Redis{
		Client:      redis.NewClient(opts),
		pingTimeout: cfg.PingTimeout,
	}

	if err := r.Ping(ctx); err != nil {
		//nolint:errcheck // already failing, close is best-effort
		_ = r.Client.Close()
		return nil, err
	}

	return r, nil
}

func clientOptions(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	return opts, nil
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	timeout := r.pingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}
