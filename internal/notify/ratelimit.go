package notify

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter gates appointment email dispatch. Allow reports whether
// one more request fits in the current window.
type RateLimiter interface {
	Allow(ctx context.Context) (bool, error)
}

// WindowLimiter is an in-process fixed-window limiter. The window is
// global, not per-client, matching a single public intake endpoint.
type WindowLimiter struct {
	limit  int
	window time.Duration
	clock  func() time.Time

	mu         sync.Mutex
	windowFrom time.Time
	count      int
}

// NewWindowLimiter creates a limiter allowing limit requests per window.
func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &WindowLimiter{limit: limit, window: window, clock: time.Now}
}

// SetClock overrides the time source, for tests.
func (l *WindowLimiter) SetClock(clock func() time.Time) {
	l.clock = clock
}

func (l *WindowLimiter) Allow(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if now.Sub(l.windowFrom) > l.window {
		l.windowFrom = now
		l.count = 1
		return true, nil
	}
	if l.count >= l.limit {
		return false, nil
	}
	l.count++
	return true, nil
}

// RedisLimiter is a fixed-window limiter backed by Redis, for
// deployments running more than one instance.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	key    string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// NewRedisLimiter creates a Redis-backed limiter sharing one counter
// under the given key.
func NewRedisLimiter(rdb *redis.Client, limit int, window time.Duration, key string) *RedisLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	if key == "" {
		key = "notify:dispatch"
	}
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, key: key}
}

func (l *RedisLimiter) Allow(ctx context.Context) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, fmt.Errorf("notify: rate limit incr: %w", err)
	}

	var count int64
	switch v := res.(type) {
	case int64:
		count = v
	case string:
		count, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false, fmt.Errorf("notify: rate limit result: %w", err)
		}
	default:
		return false, fmt.Errorf("notify: unexpected rate limit result type %T", res)
	}
	return count <= int64(l.limit), nil
}
