package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/model"
    "github.com/localmart/local-services/internal/queue"
    "github.com/localmart/local-services/internal/repository"
    queue_publisher "github.com/localmart/local-services/internal/service"
    "github.com/localmart/local-services/internal/stock"
)

// CartHandler serves the customer's garage sale flow: draft selection,
// review, clearing, and the all-or-nothing confirmation that decrements
// stock.
type CartHandler struct {
    Reservations *repository.ReservationRepo
    Events       *repository.EventRepo
    PublishEvents bool
}

func NewCartHandler(r *repository.ReservationRepo, e *repository.EventRepo, publishEvents bool) *CartHandler {
    return &CartHandler{Reservations: r, Events: e, PublishEvents: publishEvents}
}

type selectReq struct {
    Lines []repository.SelectedLine `json:"lines"`
}

// loadEvent fetches the event or writes the error response.
func (h *CartHandler) loadEvent(ctx context.Context, c echo.Context, eventID uint64) (model.GarageSaleEvent, bool) {
    ev, err := h.Events.GetEventByID(ctx, eventID)
    if err != nil {
        if err == sql.ErrNoRows {
            _ = c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        } else {
            _ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
        }
        return model.GarageSaleEvent{}, false
    }
    return ev, true
}

// Select replaces the customer's draft selection for the event.  The
// previous lines are discarded wholesale; each submitted item must be
// a listed item of this event.  Prices are snapshotted at this point.
func (h *CartHandler) Select(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }

    var req selectReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ev, ok := h.loadEvent(ctx, c, eventID)
    if !ok {
        return nil
    }

    // selections may only reference listed items of this event
    items, err := h.Events.ListItems(ctx, eventID, true)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    listed := make(map[uint64]bool, len(items))
    for _, it := range items {
        listed[it.ID] = true
    }
    for _, ln := range req.Lines {
        if ln.Quantity > 0 && !listed[ln.ItemID] {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "item not available", "item_id": ln.ItemID})
        }
    }

    draft, err := h.Reservations.GetOrCreateDraft(ctx, uid, eventID, ev.ConsultantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open draft failed"})
    }
    if err := h.Reservations.ReplaceLines(ctx, draft.ID, req.Lines); err != nil {
        if err == repository.ErrNotDraft {
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already confirmed"})
        }
        if err == repository.ErrItemGone {
            return c.JSON(http.StatusConflict, echo.Map{"error": "item no longer available"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save selection failed"})
    }

    lines, err := h.Reservations.Lines(ctx, draft.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservation_id": draft.ID, "lines": lines})
}

// Review returns the current draft with lines and total.
func (h *CartHandler) Review(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    draft, lines, err := h.Reservations.LatestDraft(ctx, uid, eventID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no draft for this event"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    var total uint64
    for _, ln := range lines {
        total += uint64(ln.PriceCents) * uint64(ln.Quantity)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "reservation_id": draft.ID,
        "status":         draft.Status,
        "lines":          lines,
        "total_cents":    total,
    })
}

// Clear empties the draft selection.
func (h *CartHandler) Clear(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    draft, _, err := h.Reservations.LatestDraft(ctx, uid, eventID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.NoContent(http.StatusNoContent)
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if err := h.Reservations.ClearDraft(ctx, draft.ID); err != nil {
        if err == repository.ErrNotDraft {
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already confirmed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Confirm turns the draft into a CONFIRMED reservation.  Everything
// happens in one transaction: the draft's lines are read, the item
// rows locked in ascending id order, every line validated against the
// locked quantities, and only if all of them fit is stock decremented
// and the status flipped.  Any shortage aborts the whole confirmation
// and reports every failing line with what is actually left.
func (h *CartHandler) Confirm(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    draft, _, err := h.Reservations.LatestDraft(ctx, uid, eventID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no draft for this event"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    tx, err := h.Reservations.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := h.Reservations.GetByIDTx(ctx, tx, draft.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if res.Status != model.ReservationDraft {
        return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already confirmed"})
    }

    lines, err := h.Reservations.DraftLinesTx(ctx, tx, draft.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if len(lines) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "selection is empty"})
    }

    itemIDs := make([]uint64, len(lines))
    for i, ln := range lines {
        itemIDs[i] = ln.ItemID
    }
    locked, err := h.Reservations.LockItemsTx(ctx, tx, itemIDs)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lock failed"})
    }

    checks := make([]stock.LineCheck, len(lines))
    for i, ln := range lines {
        it, exists := locked[ln.ItemID]
        checks[i] = stock.LineCheck{
            ItemID:    ln.ItemID,
            Title:     it.Title,
            Requested: ln.Quantity,
            Available: it.Available,
            Exists:    exists,
        }
    }
    if shortages := stock.FindShortages(checks); len(shortages) > 0 {
        return c.JSON(http.StatusConflict, echo.Map{
            "error":     "insufficient stock",
            "shortages": shortages,
        })
    }

    for _, ln := range lines {
        if err := h.Reservations.DecrementItemTx(ctx, tx, ln.ItemID, ln.Quantity); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decrement failed"})
        }
    }
    // default the pickup consultant from the event when none was set
    if res.ConsultantID == nil {
        ev, ok := h.loadEvent(ctx, c, eventID)
        if !ok {
            return nil
        }
        if ev.ConsultantID != nil {
            if err := h.Reservations.AssignConsultantTx(ctx, tx, draft.ID, *ev.ConsultantID); err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign consultant failed"})
            }
        }
    }
    if err := h.Reservations.ConfirmTx(ctx, tx, draft.ID); err != nil {
        if err == repository.ErrNotDraft {
            return c.JSON(http.StatusConflict, echo.Map{"error": "reservation already confirmed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    confirmed, err := h.Reservations.GetByID(ctx, draft.ID)
    if err != nil {
        confirmed = res
        confirmed.Status = model.ReservationConfirmed
    }
    finalLines, _ := h.Reservations.Lines(ctx, draft.ID)
    var total uint64
    for _, ln := range finalLines {
        total += uint64(ln.PriceCents) * uint64(ln.Quantity)
    }

    if h.PublishEvents {
        ev := queue.ReservationConfirmedEvent{
            Version:       1,
            ReservationID: draft.ID,
            EventID:       eventID,
            CustomerID:    uid,
            TotalCents:    total,
            LineCount:     len(finalLines),
        }
        pubCtx, pubCancel := context.WithTimeout(context.Background(), 3*time.Second)
        defer pubCancel()
        _ = queue_publisher.PublishReservationConfirmed(pubCtx, ev)
    }

    return c.JSON(http.StatusOK, echo.Map{
        "reservation_id": draft.ID,
        "status":         confirmed.Status,
        "payment_status": confirmed.PaymentStatus,
        "lines":          finalLines,
        "total_cents":    total,
    })
}

// MyReservations lists the customer's confirmed (and later) orders.
func (h *CartHandler) MyReservations(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    orders, err := h.Reservations.ListByCustomer(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": toReservationViews(orders)})
}
