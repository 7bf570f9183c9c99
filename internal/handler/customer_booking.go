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

// BookingHandler serves the customer side of physio appointments:
// consultant lookup for a slot, creating the PENDING request, and
// checking the request's status.
type BookingHandler struct {
    Locations    *repository.LocationRepo
    Appointments *repository.AppointmentRepo
}

func NewBookingHandler(l *repository.LocationRepo, a *repository.AppointmentRepo) *BookingHandler {
    return &BookingHandler{Locations: l, Appointments: a}
}

// normalizeSlot validates a requested start time against the bookable
// slot list and returns it in HH:MM:SS form.
func normalizeSlot(t string) (string, bool) {
    t = strings.TrimSpace(t)
    if len(t) == 8 && strings.HasSuffix(t, ":00") {
        t = t[:5] // accept HH:MM:SS too
    }
    for _, s := range bookableSlots {
        if t == s {
            return s + ":00", true
        }
    }
    return "", false
}

// validDate checks the YYYY-MM-DD wire format.
func validDate(d string) bool {
    _, err := time.Parse("2006-01-02", d)
    return err == nil
}

// AvailableConsultants returns the consultants bookable at a location
// for a given date and slot.  Consultants holding an ACCEPTED
// appointment at that time are filtered out; PENDING requests do not
// block them.
func (h *BookingHandler) AvailableConsultants(c echo.Context) error {
    locationID, err := strconv.ParseUint(c.QueryParam("location_id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_id required"})
    }
    date := c.QueryParam("date")
    if !validDate(date) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    slot, ok := normalizeSlot(c.QueryParam("time"))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "time is not a bookable slot"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    consultants, err := h.Locations.AvailableConsultants(ctx, locationID, date, slot)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"consultants": consultants})
}

type bookingReq struct {
    LocationID   uint64 `json:"location_id"`
    ConsultantID uint64 `json:"consultant_id"`
    Date         string `json:"date"`
    Time         string `json:"time"`
}

// CreateBooking records a PENDING appointment request for the chosen
// consultant and slot.  The consultant decides later; nothing is
// reserved yet, so overlapping requests are allowed here.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    uid, err := getUserID(c.Get("user_id"))
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    var req bookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.LocationID == 0 || req.ConsultantID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "location_id and consultant_id required"})
    }
    if !validDate(req.Date) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
    }
    slot, ok := normalizeSlot(req.Time)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "time is not a bookable slot"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    loc, err := h.Locations.GetByID(ctx, req.LocationID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !loc.IsPhysio {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "location does not offer appointments"})
    }

    appt := model.Appointment{
        LocationID:   &req.LocationID,
        ConsultantID: &req.ConsultantID,
        CreatedBy:    &uid,
        Date:         req.Date,
        Time:         slot,
    }
    if err := h.Appointments.Create(ctx, &appt); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "appointment_id": appt.ID,
        "status":         appt.Status,
        "date":           appt.Date,
        "time":           appt.Time,
    })
}

// BookingStatus returns the state of one appointment.  Only the
// requesting customer or the assigned consultant may look it up.
func (h *BookingHandler) BookingStatus(c echo.Context) error {
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

    isCustomer := appt.CreatedBy != nil && *appt.CreatedBy == uid
    isConsultant := appt.ConsultantID != nil && *appt.ConsultantID == uid
    if !isCustomer && !isConsultant {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    resp := echo.Map{
        "appointment_id": appt.ID,
        "status":         appt.Status,
        "date":           appt.Date,
        "time":           appt.Time,
    }
    if appt.RoomNumber != nil {
        resp["room_number"] = *appt.RoomNumber
    }
    return c.JSON(http.StatusOK, resp)
}
