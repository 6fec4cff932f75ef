package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports database and cache connectivity. Any failing dependency
// turns the response into a 503 so load balancers stop routing here.
func (a *API) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbStatus := "ok"
	if err := a.store.Ping(ctx); err != nil {
		dbStatus = "unreachable"
	}

	cacheStatus := "ok"
	probe := "health:probe"
	if err := a.cache.Set(ctx, probe, "1", 10*time.Second); err != nil {
		cacheStatus = "unreachable"
	} else if _, err := a.cache.Get(ctx, probe); err != nil {
		cacheStatus = "unreachable"
	}

	status := http.StatusOK
	overall := "healthy"
	if dbStatus != "ok" || cacheStatus != "ok" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"database":  dbStatus,
		"cache":     cacheStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
