package briefs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultExecutionTTL = 15 * time.Minute

// ExecutionLock serializes brief executions. The queue clear in Execute is a
// global destructive step; two concurrent executions would wipe each other's
// output.
type ExecutionLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// redisStore defines the operations used by RedisExecutionLock.
type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisExecutionLock implements ExecutionLock using Redis SETNX + TTL.
type RedisExecutionLock struct {
	client redisStore
	key    string
	ttl    time.Duration
	owner  string
}

// NewRedisExecutionLock constructs a Redis-backed execution lock.
func NewRedisExecutionLock(client redisStore, key string, ttl time.Duration) (*RedisExecutionLock, error) {
	if client == nil {
		return nil, errors.New("redis client required for execution lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultExecutionTTL
	}
	return &RedisExecutionLock{client: client, key: key, ttl: ttl}, nil
}

// NewRedisLockFactory validates the client and key once and returns a factory
// producing a fresh lock per execution. Each run needs its own lock instance
// because the owner token is per-acquisition state.
func NewRedisLockFactory(client redisStore, key string, ttl time.Duration) (func() ExecutionLock, error) {
	prototype, err := NewRedisExecutionLock(client, key, ttl)
	if err != nil {
		return nil, err
	}
	return func() ExecutionLock {
		return &RedisExecutionLock{client: prototype.client, key: prototype.key, ttl: prototype.ttl}
	}, nil
}

// Acquire tries to own the lock for the configured TTL.
func (l *RedisExecutionLock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release frees the lock only if the owner value still matches.
func (l *RedisExecutionLock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	value, err := l.client.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}
