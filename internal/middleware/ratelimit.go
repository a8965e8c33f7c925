package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/AnshRaj112/devconnect-backend/internal/database"
	"github.com/AnshRaj112/devconnect-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the fixed counting window per IP.
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window.
	RateLimitMaxRequests = 120
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting.
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs.
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after exceeding the limit.
	BlockedIPDuration = 1 * time.Hour
)

// RateLimit provides Redis-backed fixed-window rate limiting with temporary
// IP blocking. When Redis is unavailable requests pass through unthrottled.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if database.RedisClient == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientip.RealClientIP(r)
		ctx := context.Background()

		blocked, err := database.RedisClient.Exists(ctx, BlockedIPKeyPrefix+ip).Result()
		if err == nil && blocked > 0 {
			writeRateLimited(w)
			return
		}

		key := RateLimitKeyPrefix + ip
		count, err := database.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis hiccup: let the request through rather than failing it
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			database.RedisClient.Expire(ctx, key, RateLimitWindow)
		}
		if count > RateLimitMaxRequests {
			database.RedisClient.Set(ctx, BlockedIPKeyPrefix+ip, "1", BlockedIPDuration)
			writeRateLimited(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeRateLimited(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"msg":"Too many requests, please try again later"}`))
}
