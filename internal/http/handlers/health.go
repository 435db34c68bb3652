package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// HealthCheck runs every probe concurrently under one deadline. A failing
// probe does not cancel the others.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if len(h.checks) == 0 {
		c.String(http.StatusOK, "ok")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		status  = http.StatusOK
		results = gin.H{}
		g       errgroup.Group
	)
	for name, check := range h.checks {
		g.Go(func() error {
			state := "ok"
			if err := check(ctx); err != nil {
				state = "down"
			}
			mu.Lock()
			defer mu.Unlock()
			results[name] = state
			if state != "ok" {
				status = http.StatusServiceUnavailable
			}
			return nil
		})
	}
	_ = g.Wait()
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
}
