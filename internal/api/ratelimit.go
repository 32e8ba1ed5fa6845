package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess int64
}

// clientLimiter keeps one token bucket per client IP. Entries unused for
// entryTTL are evicted by a background sweep.
type clientLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

const (
	cleanupInterval = 5 * time.Minute
	entryTTL        = 10 * time.Minute
)

func newClientLimiter(requests int, window time.Duration) *clientLimiter {
	if requests <= 0 {
		requests = 300
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	l := &clientLimiter{
		rate:  rate.Limit(float64(requests) / window.Seconds()),
		burst: requests,
	}
	go l.cleanup()
	return l
}

func (l *clientLimiter) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-entryTTL).Unix()
		l.limiters.Range(func(key, value any) bool {
			entry, ok := value.(*limiterEntry)
			if ok && entry.lastAccess < cutoff {
				l.limiters.Delete(key)
			}
			return true
		})
	}
}

func (l *clientLimiter) allow(key string) bool {
	now := time.Now().Unix()

	entryI, loaded := l.limiters.Load(key)
	if !loaded {
		newEntry := &limiterEntry{
			limiter:    rate.NewLimiter(l.rate, l.burst),
			lastAccess: now,
		}
		entryI, _ = l.limiters.LoadOrStore(key, newEntry)
	}

	entry, ok := entryI.(*limiterEntry)
	if !ok {
		return true
	}
	entry.lastAccess = now
	return entry.limiter.Allow()
}

// RateLimitMiddleware 基于客户端 IP 的令牌桶限流中间件
func RateLimitMiddleware(requests int, window time.Duration) gin.HandlerFunc {
	limiter := newClientLimiter(requests, window)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, APIError{
				Code:    ErrCodeTooManyRequests,
				Message: "请求过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
