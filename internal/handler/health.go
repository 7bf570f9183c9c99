package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
)

// HealthHandler answers load balancer probes.  Besides liveness it
// verifies the database, the one dependency the marketplace cannot
// run without; Redis and the queue are optional tiers and do not fail
// the check.
type HealthHandler struct {
    DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
    return &HealthHandler{DB: db}
}

// Check returns 200 when the service can reach its database, 503
// otherwise.
func (h *HealthHandler) Check(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    if h.DB != nil {
        if err := h.DB.PingContext(ctx); err != nil {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": "database unreachable"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
