package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/studentcomputing/internal/logging"
)

// RateLimitStore is the slice of *redis.Client the limiter needs.
type RateLimitStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RateLimiter counts requests per key in fixed windows stored in Redis.
// It fails open: without a store, or when Redis errors, requests proceed.
type RateLimiter struct {
	store   RateLimitStore
	limit   int64
	window  time.Duration
	prefix  string
	keyFunc func(*http.Request) string
	logger  *logging.Logger
	now     func() time.Time
}

func NewRateLimiter(store RateLimitStore, limit int64, window time.Duration, prefix string, keyFunc func(*http.Request) string, logger *logging.Logger) *RateLimiter {
	if keyFunc == nil {
		keyFunc = ClientIP
	}
	if logger == nil {
		logger = logging.Default
	}
	return &RateLimiter{
		store:   store,
		limit:   limit,
		window:  window,
		prefix:  prefix,
		keyFunc: keyFunc,
		logger:  logger.WithField("component", "ratelimit"),
		now:     time.Now,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.store == nil || rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		windowStart := rl.now().Truncate(rl.window)
		resetAt := windowStart.Add(rl.window)
		key := rl.prefix + rl.keyFunc(r) + ":" + strconv.FormatInt(windowStart.Unix(), 10)

		count, err := rl.hit(r.Context(), key)
		if err != nil {
			rl.logger.Warn("Rate limit check failed, allowing request", logging.Fields{"error": err.Error()})
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if count > rl.limit {
			retry := int64(resetAt.Sub(rl.now()).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
			writeMiddlewareError(w, http.StatusTooManyRequests, "Too many ideas submitted. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) hit(ctx context.Context, key string) (int64, error) {
	count, err := rl.store.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := rl.store.Expire(ctx, key, rl.window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// ClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the connection address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if host, _, err := net.SplitHostPort(first); err == nil {
			return host
		}
		return first
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
