package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"weblog/utils"
)

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimit applies a per-IP token bucket allowing perMinute requests.
// Idle client entries are evicted after five minutes.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute < 1 {
		perMinute = 1
	}
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute/2 + 1

	var (
		mu       sync.Mutex
		limiters = map[string]*clientLimiter{}
	)

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()

		mu.Lock()
		now := time.Now()
		for key, cl := range limiters {
			if now.After(cl.expires) {
				delete(limiters, key)
			}
		}
		cl, ok := limiters[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(limit, burst)}
			limiters[ip] = cl
		}
		cl.expires = now.Add(5 * time.Minute)
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
