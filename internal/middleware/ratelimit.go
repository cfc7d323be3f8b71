package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimit caps how many requests a client may issue against a route within
// a fixed window, keyed by (client IP, route path). State lives in memory,
// which is sufficient for single-instance deployments and tests. A
// non-positive limit or window disables the limiter entirely.
func RateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 || window <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	type bucket struct {
		hits    int
		resetAt time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	// Expired buckets are swept once per window so the map cannot grow
	// without bound.
	janitor := time.NewTicker(window)
	go func() {
		for range janitor.C {
			now := time.Now()
			mu.Lock()
			for key, b := range buckets {
				if now.After(b.resetAt) {
					delete(buckets, key)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		key := c.ClientIP() + "|" + c.FullPath()
		now := time.Now()

		mu.Lock()
		b, ok := buckets[key]
		if !ok || now.After(b.resetAt) {
			b = &bucket{resetAt: now.Add(window)}
			buckets[key] = b
		}
		b.hits++
		remaining := maxRequests - b.hits
		resetIn := time.Until(b.resetAt)
		limited := b.hits > maxRequests
		mu.Unlock()

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, remaining)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(resetIn.Seconds())))

		if limited {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		c.Next()
	}
}
