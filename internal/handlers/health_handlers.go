package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Checker probes one backing service.
type Checker interface {
	Ping(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db      Checker
	cache   Checker
	storage Checker
	version string
	started time.Time
}

// NewHealthHandlers creates a new health handlers instance. storage may be
// nil when archiving is disabled.
func NewHealthHandlers(db, cache, storage Checker, version string) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		cache:   cache,
		storage: storage,
		version: version,
		started: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck handles GET /health. A failing optional service degrades the
// status, a failing database makes it unhealthy.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
	}

	if err := probe(ctx, h.cache); err != nil {
		health.Services["redis"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["redis"] = "healthy"
	}

	if h.storage == nil {
		health.Services["storage"] = "disabled"
	} else if err := probe(ctx, h.storage); err != nil {
		health.Services["storage"] = "unhealthy"
		health.Status = "degraded"
	} else {
		health.Services["storage"] = "healthy"
	}

	if err := probe(ctx, h.db); err != nil {
		health.Services["database"] = "unhealthy"
		health.Status = "unhealthy"
	} else {
		health.Services["database"] = "healthy"
	}

	statusCode := http.StatusOK
	switch health.Status {
	case "degraded":
		statusCode = http.StatusPartialContent
	case "unhealthy":
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, health)
}

// ReadinessCheck handles GET /health/ready. Only the database is critical.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if err := probe(c.Request().Context(), h.db); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func probe(ctx context.Context, checker Checker) error {
	if checker == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return checker.Ping(ctx)
}
