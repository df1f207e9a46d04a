package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxAttempts = 5
	DefaultLockout     = 30 * time.Minute
)

// LockedError is returned while an identifier is locked out of sign-in.
type LockedError struct {
	RetryAfter time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("too many failed sign-in attempts, retry in %s", e.RetryAfter.Round(time.Second))
}

// Lockout counts failed sign-ins per identifier.
type Lockout interface {
	// RetryAfter returns how long key stays locked, zero when it is not.
	RetryAfter(ctx context.Context, key string) (time.Duration, error)
	// RecordFailure counts a failed attempt and returns the lock duration when
	// this attempt caused a lock, zero otherwise.
	RecordFailure(ctx context.Context, key string) (time.Duration, error)
	Reset(ctx context.Context, key string) error
}

type attemptState struct {
	failures    int
	lockedUntil time.Time
}

// MemoryLockout keeps counters in process memory. Counters are lost on
// restart and are not shared between instances.
type MemoryLockout struct {
	mu          sync.Mutex
	maxAttempts int
	duration    time.Duration
	now         func() time.Time
	state       map[string]*attemptState
}

func NewMemoryLockout(maxAttempts int, duration time.Duration) *MemoryLockout {
	return &MemoryLockout{
		maxAttempts: maxAttempts,
		duration:    duration,
		now:         time.Now,
		state:       make(map[string]*attemptState),
	}
}

func (l *MemoryLockout) RetryAfter(_ context.Context, key string) (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.state[key]
	if !ok {
		return 0, nil
	}
	if remaining := st.lockedUntil.Sub(l.now()); remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}

func (l *MemoryLockout) RecordFailure(_ context.Context, key string) (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.state[key]
	if !ok {
		st = &attemptState{}
		l.state[key] = st
	}
	st.failures++
	if st.failures >= l.maxAttempts {
		st.failures = 0
		st.lockedUntil = l.now().Add(l.duration)
		return l.duration, nil
	}
	return 0, nil
}

func (l *MemoryLockout) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.state, key)
	return nil
}

// RedisLockout shares counters across instances. The failure counter expires
// after the lockout window so stale failures do not accumulate forever.
type RedisLockout struct {
	client      *redis.Client
	maxAttempts int
	duration    time.Duration
}

func NewRedisLockout(client *redis.Client, maxAttempts int, duration time.Duration) *RedisLockout {
	return &RedisLockout{client: client, maxAttempts: maxAttempts, duration: duration}
}

func (l *RedisLockout) RetryAfter(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := l.client.PTTL(ctx, lockKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis pttl failed: %w", err)
	}
	// -2 missing key, -1 no expiry
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func (l *RedisLockout) RecordFailure(ctx context.Context, key string) (time.Duration, error) {
	fk := failuresKey(key)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, fk)
	pipe.ExpireNX(ctx, fk, l.duration)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr failed: %w", err)
	}
	count := incr.Val()
	if count < int64(l.maxAttempts) {
		return 0, nil
	}

	pipe = l.client.TxPipeline()
	pipe.Set(ctx, lockKey(key), "1", l.duration)
	pipe.Del(ctx, fk)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis lock failed: %w", err)
	}
	return l.duration, nil
}

func (l *RedisLockout) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, failuresKey(key), lockKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func failuresKey(key string) string {
	return fmt.Sprintf("login:failures:%s", key)
}

func lockKey(key string) string {
	return fmt.Sprintf("login:lock:%s", key)
}
