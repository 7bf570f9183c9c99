package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/model"
    "github.com/localmart/local-services/internal/repository"
)

// OwnerLocationHandler serves the location owner's physio dashboard:
// venue management, consultant linking, and the appointment overview
// across their venues.
type OwnerLocationHandler struct {
    Locations    *repository.LocationRepo
    Appointments *repository.AppointmentRepo
    Users        *repository.UserRepo
}

func NewOwnerLocationHandler(l *repository.LocationRepo, a *repository.AppointmentRepo, u *repository.UserRepo) *OwnerLocationHandler {
    return &OwnerLocationHandler{Locations: l, Appointments: a, Users: u}
}

// ListLocations returns the owner's venues.
func (h *OwnerLocationHandler) ListLocations(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    locs, err := h.Locations.ListByOwner(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"locations": toLocationViews(locs)})
}

// CreateLocation adds another venue for the owner.  Room counts are
// capped the same way as at registration.
func (h *OwnerLocationHandler) CreateLocation(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    var req locationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }
    if req.IsPhysio && (req.RoomCount < 1 || req.RoomCount > 3) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_count must be 1-3"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    loc := model.Location{
        OwnerID:      &uid,
        Name:         req.Name,
        Latitude:     req.Latitude,
        Longitude:    req.Longitude,
        RoomCount:    req.RoomCount,
        IsPhysio:     req.IsPhysio,
        IsGarageSale: req.IsGarageSale,
    }
    if err := h.Locations.Create(ctx, &loc); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create location failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"location": toLocationView(loc)})
}

type linkConsultantReq struct {
    ConsultantID uint64 `json:"consultant_id"`
}

// LinkConsultant makes a consultant bookable at one of the owner's
// venues.  The target user must actually hold the CONSULTANT role.
func (h *OwnerLocationHandler) LinkConsultant(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    locationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
    }

    var req linkConsultantReq
    if err := c.Bind(&req); err != nil || req.ConsultantID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "consultant_id required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    loc, err := h.Locations.GetByID(ctx, locationID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if loc.OwnerID == nil || *loc.OwnerID != uid {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    u, err := h.Users.GetByID(ctx, req.ConsultantID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "consultant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if u.Role != model.RoleConsultant {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is not a consultant"})
    }

    if err := h.Locations.LinkConsultant(ctx, locationID, req.ConsultantID); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "consultant already linked"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "link failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// AppointmentOverview returns every appointment across the owner's
// venues, newest first.  Action tokens are not the owner's business
// and are blanked out of the response.
func (h *OwnerLocationHandler) AppointmentOverview(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    appts, err := h.Appointments.ListForOwner(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    // the view never includes action tokens; those belong to consultants
    return c.JSON(http.StatusOK, echo.Map{"appointments": toOwnerAppointmentViews(appts)})
}
