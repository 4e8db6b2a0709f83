package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/barstore/internal/domain/dto"
)

// client is the fixed-window counter of one caller.
type client struct {
	windowStart time.Time
	count       int
}

// In-memory limiter state, shared by every RateLimiter instance of the process.
var (
	clients         = make(map[string]*client)
	window          = time.Minute
	limit           = 120
	rateLimiterLock sync.Mutex
)

// RateLimiter limits each client IP to `limit` requests per fixed `window`
// (default: 120 requests per minute). Excess requests get 429 with an
// ErrorResponse body.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter())
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}

func allow(ip string, now time.Time) bool {
	rateLimiterLock.Lock()
	defer rateLimiterLock.Unlock()

	cl, ok := clients[ip]
	if !ok || now.Sub(cl.windowStart) > window {
		clients[ip] = &client{windowStart: now, count: 1}
		sweep(now)
		return true
	}
	cl.count++
	return cl.count <= limit
}

// sweep drops clients whose window has expired. Caller holds rateLimiterLock.
func sweep(now time.Time) {
	for ip, cl := range clients {
		if now.Sub(cl.windowStart) > window {
			delete(clients, ip)
		}
	}
}

func resetRateLimiter() {
	rateLimiterLock.Lock()
	defer rateLimiterLock.Unlock()
	clients = make(map[string]*client)
}
