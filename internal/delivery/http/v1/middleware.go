package v1

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// identityHeader carries the acting identity. The dashboard runs
// unauthenticated behind its own origin, so when the header is absent the
// actor defaults to the user the request targets; a fronting proxy that
// does authenticate injects the header and the facade enforces ownership.
const identityHeader = "X-User-ID"

// actor resolves the acting identity for a request targeting userID.
func actor(c *gin.Context, userID string) string {
	if id := c.GetHeader(identityHeader); id != "" {
		return id
	}
	return userID
}

// RateLimit returns a per-client-IP token bucket middleware.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[ip]
		if !ok {
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[ip] = l
		}
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
