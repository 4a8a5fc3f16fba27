package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hidayetmm/places-client/internal/core/ports"
)

const (
	sessionKey     = "places:session"
	defaultTimeout = 5 * time.Second
)

// RedisConfig captures the settings for establishing a Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisVault stores the serialized session under a single fixed key with no
// expiry; the access token's own lifetime bounds how long the copy is useful.
type RedisVault struct {
	client *redis.Client
}

// NewRedisVault wraps an established Redis client.
func NewRedisVault(client *redis.Client) *RedisVault {
	return &RedisVault{client: client}
}

func (v *RedisVault) Put(ctx context.Context, session []byte) error {
	if err := v.client.Set(ctx, sessionKey, session, 0).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (v *RedisVault) Get(ctx context.Context) ([]byte, error) {
	b, err := v.client.Get(ctx, sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return b, nil
}

func (v *RedisVault) Delete(ctx context.Context) error {
	if err := v.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (v *RedisVault) Ping(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}
