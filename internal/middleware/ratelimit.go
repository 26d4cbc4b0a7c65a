package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware allows at most limit requests per client IP in each fixed window.
// Counters live in Redis so every instance shares them. Redis errors let the request through.
func RateLimitMiddleware(rdb *redis.Client, scope string, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "ratelimit:" + scope + ":" + c.ClientIP()

		// The window is created with its TTL in the same transaction as the increment,
		// so a counter can never outlive its window.
		var incr *redis.IntCmd
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetNX(ctx, key, 0, window)
			incr = pipe.Incr(ctx, key)
			return nil
		})
		if err != nil {
			log.Printf("⚠️  Rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		count := incr.Val()

		if count > limit {
			if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
				c.Header("Retry-After", strconv.Itoa(int(ttl.Round(time.Second).Seconds())))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}
