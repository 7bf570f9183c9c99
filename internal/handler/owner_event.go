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

// OwnerEventHandler serves the owner's garage sale side: event
// creation and the item catalogue behind each event.
type OwnerEventHandler struct {
    Events    *repository.EventRepo
    Locations *repository.LocationRepo
    Users     *repository.UserRepo
}

func NewOwnerEventHandler(e *repository.EventRepo, l *repository.LocationRepo, u *repository.UserRepo) *OwnerEventHandler {
    return &OwnerEventHandler{Events: e, Locations: l, Users: u}
}

type eventReq struct {
    LocationID   *uint64 `json:"location_id"`
    ConsultantID *uint64 `json:"consultant_id"`
    Title        string  `json:"title"`
    StartDate    string  `json:"start_date"`
    EndDate      string  `json:"end_date"`
}

// CreateEvent opens a garage sale event at one of the owner's venues.
// The optional consultant becomes the default pickup contact for
// reservations made against the event.
func (h *OwnerEventHandler) CreateEvent(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    var req eventReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Title = strings.TrimSpace(req.Title)
    if req.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
    }
    if !validDate(req.StartDate) || !validDate(req.EndDate) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
    }
    if req.EndDate < req.StartDate {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date before start_date"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if req.LocationID != nil {
        loc, err := h.Locations.GetByID(ctx, *req.LocationID)
        if err != nil {
            if err == sql.ErrNoRows {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
        }
        if loc.OwnerID == nil || *loc.OwnerID != uid {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        if !loc.IsGarageSale {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "location does not host garage sales"})
        }
    }
    if req.ConsultantID != nil {
        u, err := h.Users.GetByID(ctx, *req.ConsultantID)
        if err != nil || u.Role != model.RoleConsultant {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "consultant_id is not a consultant"})
        }
    }

    ev := model.GarageSaleEvent{
        LocationID:   req.LocationID,
        OwnerID:      uid,
        ConsultantID: req.ConsultantID,
        Title:        req.Title,
        StartDate:    req.StartDate,
        EndDate:      req.EndDate,
    }
    if err := h.Events.CreateEvent(ctx, &ev); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"event": toEventView(ev)})
}

// ListEvents returns the owner's events.
func (h *OwnerEventHandler) ListEvents(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    events, err := h.Events.ListEventsByOwner(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"events": toEventViews(events)})
}

// ownEvent loads an event and verifies the caller owns it.
func (h *OwnerEventHandler) ownEvent(ctx context.Context, c echo.Context, eventID uint64) (model.GarageSaleEvent, bool) {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        _ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        return model.GarageSaleEvent{}, false
    }
    ev, err := h.Events.GetEventByID(ctx, eventID)
    if err != nil {
        if err == sql.ErrNoRows {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
        }
        return model.GarageSaleEvent{}, false
    }
    if ev.OwnerID != uid {
        _ = c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        return model.GarageSaleEvent{}, false
    }
    return ev, true
}

type itemReq struct {
    Title             string `json:"title"`
    Description       string `json:"description"`
    PriceCents        uint32 `json:"price_cents"`
    QuantityAvailable uint32 `json:"quantity_available"`
    IsListed          *bool  `json:"is_listed"`
}

// CreateItem lists a new item under one of the owner's events.
func (h *OwnerEventHandler) CreateItem(c echo.Context) error {
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, ok := h.ownEvent(ctx, c, eventID); !ok {
        return nil
    }

    var req itemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Title = strings.TrimSpace(req.Title)
    if req.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
    }

    listed := true
    if req.IsListed != nil {
        listed = *req.IsListed
    }
    it := model.SaleItem{
        EventID:           eventID,
        Title:             req.Title,
        Description:       req.Description,
        PriceCents:        req.PriceCents,
        QuantityAvailable: req.QuantityAvailable,
        IsListed:          listed,
    }
    if err := h.Events.CreateItem(ctx, &it); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": toItemView(it)})
}

// ListItems returns every item of one of the owner's events,
// including delisted ones.
func (h *OwnerEventHandler) ListItems(c echo.Context) error {
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, ok := h.ownEvent(ctx, c, eventID); !ok {
        return nil
    }
    items, err := h.Events.ListItems(ctx, eventID, false)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": toItemViews(items)})
}

// UpdateItem edits an item.  Price edits do not touch existing
// reservation lines, which keep the snapshot taken at selection time.
func (h *OwnerEventHandler) UpdateItem(c echo.Context) error {
    itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    it, err := h.Events.GetItemByID(ctx, itemID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if _, ok := h.ownEvent(ctx, c, it.EventID); !ok {
        return nil
    }

    var req itemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if t := strings.TrimSpace(req.Title); t != "" {
        it.Title = t
    }
    it.Description = req.Description
    it.PriceCents = req.PriceCents
    it.QuantityAvailable = req.QuantityAvailable
    if req.IsListed != nil {
        it.IsListed = *req.IsListed
    }
    if err := h.Events.UpdateItem(ctx, &it); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update item failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toItemView(it)})
}

// DeleteItem removes an item.  When confirmed reservations still
// reference it the delete is refused with 409 and the owner should
// delist instead.
func (h *OwnerEventHandler) DeleteItem(c echo.Context) error {
    itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    it, err := h.Events.GetItemByID(ctx, itemID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if _, ok := h.ownEvent(ctx, c, it.EventID); !ok {
        return nil
    }

    if err := h.Events.DeleteItem(ctx, itemID); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "item has confirmed reservations; delist it instead"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete item failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
