package handlers

import (
	"net/http"
	"strconv"
	"time"

	"tripbazaar/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userIDKey = "userID"

// RequestLogger logs one line per request and records the Prometheus
// counters. Routes are labelled by pattern, not raw path, to keep the
// cardinality bounded.
func (a *API) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		a.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("client_ip", c.ClientIP()))
	}
}

// RateLimit enforces the fixed window per client IP. Denied requests get a
// Retry-After header so well-behaved clients can back off.
func (a *API) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := a.limiter.Check(c.Request.Context(), c.ClientIP())
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			fail(c, http.StatusTooManyRequests, "too many requests, slow down", CodeRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUser reads the caller identity from the X-User-ID header. A real
// auth provider would verify a token here; the header stands in for one.
func (a *API) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			fail(c, http.StatusUnauthorized, "authentication required", CodeUnauthorized)
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUser returns the authenticated user id, empty when the route is
// not behind RequireUser.
func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}
