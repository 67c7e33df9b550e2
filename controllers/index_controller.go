package controllers

import (
	"context"
	"net/http"
	"time"
)

// APIVersion is reported by the index route
const APIVersion = "v1"

const healthTimeout = 2 * time.Second

// IndexController handles the index and health routes
type IndexController struct {
	db Pinger
}

// NewIndexController creates a new index controller
func NewIndexController(db Pinger) *IndexController {
	return &IndexController{db: db}
}

// Index handles GET /
func (c *IndexController) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"homepage":    "/",
		"api_version": APIVersion,
	})
}

// Health handles GET /health
func (c *IndexController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status, database, code := "healthy", "ok", http.StatusOK
	if err := c.db.PingContext(ctx); err != nil {
		status, database, code = "unhealthy", "unreachable", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{
		"status":   status,
		"service":  "registry-api",
		"database": database,
	})
}
