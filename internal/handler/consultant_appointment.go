package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/booking"
    "github.com/localmart/local-services/internal/model"
    "github.com/localmart/local-services/internal/queue"
    "github.com/localmart/local-services/internal/repository"
    queue_publisher "github.com/localmart/local-services/internal/service"
)

// ConsultantHandler serves the consultant side of physio appointments:
// the pending request inbox, the appointment list, and the
// accept/decline transitions on both the authenticated and the
// action-token paths.  Both paths run the same decision code inside a
// single transaction so the conflict checks and the status flip cannot
// be separated by a concurrent decision.
type ConsultantHandler struct {
    Appointments *repository.AppointmentRepo
    Locations    *repository.LocationRepo
    PublishEvents bool
}

func NewConsultantHandler(a *repository.AppointmentRepo, l *repository.LocationRepo, publishEvents bool) *ConsultantHandler {
    return &ConsultantHandler{Appointments: a, Locations: l, PublishEvents: publishEvents}
}

// PendingRequests lists the consultant's undecided booking requests.
func (h *ConsultantHandler) PendingRequests(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    appts, err := h.Appointments.ListByConsultant(ctx, uid, model.AppointmentPending)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"requests": toAppointmentViews(appts)})
}

// MyAppointments lists the consultant's appointments, optionally
// filtered with ?status=.
func (h *ConsultantHandler) MyAppointments(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    status := c.QueryParam("status")
    switch status {
    case "", model.AppointmentPending, model.AppointmentAccepted, model.AppointmentDeclined:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    appts, err := h.Appointments.ListByConsultant(ctx, uid, status)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"appointments": toAppointmentViews(appts)})
}

// Accept decides the appointment in the consultant's favor if the slot
// still allows it.  A consultant conflict or a full location turns the
// acceptance into an automatic decline with a reason.
func (h *ConsultantHandler) Accept(c echo.Context) error {
    return h.decideByID(c, true)
}

// Decline marks the appointment DECLINED.
func (h *ConsultantHandler) Decline(c echo.Context) error {
    return h.decideByID(c, false)
}

func (h *ConsultantHandler) decideByID(c echo.Context, accept bool) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    apptID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Appointments.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    appt, err := h.Appointments.GetByIDTx(ctx, tx, apptID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if appt.ConsultantID == nil || *appt.ConsultantID != uid {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    resp, err := h.decideTx(ctx, tx, appt, accept)
    if err != nil {
        if err == repository.ErrAlreadyDecided {
            return c.JSON(http.StatusConflict, echo.Map{"error": "already decided", "status": appt.Status})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decision failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    h.publishDecision(appt, resp)
    return c.JSON(http.StatusOK, resp)
}

// TokenAccept decides via the emailed action link instead of a JWT.
func (h *ConsultantHandler) TokenAccept(c echo.Context) error {
    return h.decideByToken(c, true)
}

// TokenDecline declines via the emailed action link.
func (h *ConsultantHandler) TokenDecline(c echo.Context) error {
    return h.decideByToken(c, false)
}

// decideByToken runs the same transition as the interactive path; the
// token only locates the appointment, the caller still authenticates
// with a JWT.  An unknown token is treated as someone else's link
// (403), a known token held by the wrong account gets a distinct 403,
// and a known but expired token is 410 so the consultant knows to
// request a fresh link.
func (h *ConsultantHandler) decideByToken(c echo.Context, accept bool) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    token := c.Param("token")
    if token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Appointments.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    appt, err := h.Appointments.GetByTokenTx(ctx, tx, token)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "this link is not yours"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if appt.ConsultantID == nil || *appt.ConsultantID != uid {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "this link is not for your account"})
    }
    if !booking.TokenUsable(appt.TokenExpires, time.Now().UTC()) {
        return c.JSON(http.StatusGone, echo.Map{"error": "this link has expired"})
    }

    resp, err := h.decideTx(ctx, tx, appt, accept)
    if err != nil {
        if err == repository.ErrAlreadyDecided {
            return c.JSON(http.StatusConflict, echo.Map{"error": "already decided", "status": appt.Status})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decision failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    h.publishDecision(appt, resp)
    return c.JSON(http.StatusOK, resp)
}

// decisionResp is the versioned decision outcome shared by both paths.
type decisionResp struct {
    Version       int     `json:"version"`
    AppointmentID uint64  `json:"appointment_id"`
    Status        string  `json:"status"`
    RoomNumber    *uint32 `json:"room_number,omitempty"`
    Reason        string  `json:"reason,omitempty"`
}

// decideTx applies the accept/decline transition inside the caller's
// transaction.  The appointment must be PENDING; otherwise
// ErrAlreadyDecided bubbles up.  An accept re-checks the consultant's
// calendar and the location's rooms under the same transaction, and a
// duplicate-key hit on the accepted-uniqueness indexes falls back to
// the auto-decline outcome as if the conflict had been seen up front.
func (h *ConsultantHandler) decideTx(ctx context.Context, tx *sql.Tx, appt model.Appointment, accept bool) (decisionResp, error) {
    if appt.Status != model.AppointmentPending {
        return decisionResp{}, repository.ErrAlreadyDecided
    }

    if !accept {
        if err := h.Appointments.DeclineTx(ctx, tx, appt.ID); err != nil {
            return decisionResp{}, err
        }
        return decisionResp{Version: 1, AppointmentID: appt.ID, Status: model.AppointmentDeclined}, nil
    }

    state := booking.SlotState{}
    if appt.ConsultantID != nil {
        busy, err := h.Appointments.ConsultantBusyTx(ctx, tx, *appt.ConsultantID, appt.Date, appt.Time, appt.ID)
        if err != nil {
            return decisionResp{}, err
        }
        state.ConsultantBusy = busy
    }
    if appt.LocationID != nil {
        loc, err := h.Locations.GetByIDTx(ctx, tx, *appt.LocationID)
        if err != nil {
            return decisionResp{}, err
        }
        taken, err := h.Appointments.TakenRoomsTx(ctx, tx, *appt.LocationID, appt.Date, appt.Time, appt.ID)
        if err != nil {
            return decisionResp{}, err
        }
        state.HasLocation = true
        state.RoomCount = loc.RoomCount
        state.TakenRooms = taken
    }

    outcome := booking.DecideAccept(state)
    if outcome.Accepted {
        err := h.Appointments.AcceptTx(ctx, tx, appt.ID, outcome.Room)
        if err == repository.ErrSlotTaken {
            // a concurrent accept won the slot between our reads and
            // the update; same outcome as a planned conflict
            outcome = booking.ContendedOutcome()
            err = h.Appointments.DeclineTx(ctx, tx, appt.ID)
        }
        if err != nil {
            return decisionResp{}, err
        }
    } else {
        if err := h.Appointments.DeclineTx(ctx, tx, appt.ID); err != nil {
            return decisionResp{}, err
        }
    }

    resp := decisionResp{Version: 1, AppointmentID: appt.ID}
    if outcome.Accepted {
        resp.Status = model.AppointmentAccepted
        resp.RoomNumber = outcome.Room
    } else {
        resp.Status = model.AppointmentDeclined
        resp.Reason = outcome.Reason
    }
    return resp, nil
}

// publishDecision fires the appointment.decided event after commit.
// Publish failures are ignored; the decision already stands.
func (h *ConsultantHandler) publishDecision(appt model.Appointment, resp decisionResp) {
    if !h.PublishEvents {
        return
    }
    var consultantID uint64
    if appt.ConsultantID != nil {
        consultantID = *appt.ConsultantID
    }
    ev := queue.AppointmentDecidedEvent{
        Version:       1,
        AppointmentID: appt.ID,
        ConsultantID:  consultantID,
        Status:        resp.Status,
        RoomNumber:    resp.RoomNumber,
        Reason:        resp.Reason,
        Date:          appt.Date,
        Time:          appt.Time,
    }
    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()
    _ = queue_publisher.PublishAppointmentDecided(ctx, ev)
}

// RefreshLink reissues the appointment's action token, restarting the
// validity window.  Only the assigned consultant may do this.
func (h *ConsultantHandler) RefreshLink(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    apptID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    appt, err := h.Appointments.GetByID(ctx, apptID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "appointment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if appt.ConsultantID == nil || *appt.ConsultantID != uid {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    if appt.Status != model.AppointmentPending {
        return c.JSON(http.StatusConflict, echo.Map{"error": "already decided", "status": appt.Status})
    }

    token, exp, err := h.Appointments.RefreshActionToken(ctx, apptID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"action_token": token, "expires_at": exp})
}
