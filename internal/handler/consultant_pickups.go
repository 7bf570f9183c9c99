package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/repository"
)

// PickupHandler serves the consultant's garage sale dashboard: the
// confirmed reservations awaiting handover at their events.
type PickupHandler struct {
    Reservations *repository.ReservationRepo
}

func NewPickupHandler(r *repository.ReservationRepo) *PickupHandler {
    return &PickupHandler{Reservations: r}
}

// ListPickups returns the confirmed orders assigned to the consultant,
// oldest confirmation first, with lines and totals.
func (h *PickupHandler) ListPickups(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    orders, err := h.Reservations.ListPickups(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"pickups": orders})
}
