package gin

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig throttles every request through one shared token bucket.
// A zero RequestsPerSecond disables throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Enabled reports whether throttling is configured.
func (c RateLimitConfig) Enabled() bool {
	return c.RequestsPerSecond > 0
}

// RateLimitMiddleware answers 429 once the bucket is empty. Burst defaults to the
// per-second rate, rounded up. /health is never throttled.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(math.Ceil(cfg.RequestsPerSecond))
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)

	return func(c *gin.Context) {
		if c.Request.URL.Path == healthPath || limiter.Allow() {
			c.Next()
			return
		}

		retryAfter := math.Ceil(1 / cfg.RequestsPerSecond)
		c.Header("Retry-After", strconv.Itoa(int(retryAfter)))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "Too many requests",
			"code":  "rate_limited",
		})
	}
}
