package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: the two
// service maps, the bookable timeslot list and garage sale event
// detail.  These routes sit behind the response cache and rate limit
// middleware, so handlers stay read-only.
type PublicHandler struct {
    Locations *repository.LocationRepo
    Events    *repository.EventRepo
}

func NewPublicHandler(l *repository.LocationRepo, e *repository.EventRepo) *PublicHandler {
    return &PublicHandler{Locations: l, Events: e}
}

// bookableSlots are the fixed start times offered for physio
// appointments.  Noon is a break.
var bookableSlots = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00"}

// Timeslots returns the fixed list of bookable start times.
func (h *PublicHandler) Timeslots(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"slots": bookableSlots})
}

// PhysioMap returns physio locations that have coordinates, for the
// customer-facing map.
func (h *PublicHandler) PhysioMap(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    locs, err := h.Locations.ListPhysio(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"locations": toLocationViews(locs)})
}

// GarageSaleMap returns garage sale events active on the given date
// (default today) whose locations have coordinates.
func (h *PublicHandler) GarageSaleMap(c echo.Context) error {
    onDate := c.QueryParam("date")
    if onDate == "" {
        onDate = time.Now().UTC().Format("2006-01-02")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    events, err := h.Events.ListActiveWithCoords(ctx, onDate)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"events": toMapEventViews(events)})
}

// EventDetail returns one garage sale event with its listed items.
func (h *PublicHandler) EventDetail(c echo.Context) error {
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ev, err := h.Events.GetEventByID(ctx, eventID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    items, err := h.Events.ListItems(ctx, eventID, true)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"event": toEventView(ev), "items": toItemViews(items)})
}
