package handler

import (
    "time"

    "github.com/localmart/local-services/internal/model"
    "github.com/localmart/local-services/internal/repository"
)

// JSON views returned by list and detail endpoints.  Models carry no
// serialization tags; handlers map them into these shapes so internal
// columns (password hashes, action tokens) never leak by accident.

type locationView struct {
    ID           uint64   `json:"id"`
    Name         string   `json:"name"`
    Latitude     *float64 `json:"latitude,omitempty"`
    Longitude    *float64 `json:"longitude,omitempty"`
    RoomCount    uint32   `json:"room_count"`
    IsPhysio     bool     `json:"is_physio"`
    IsGarageSale bool     `json:"is_garage_sale"`
}

func toLocationView(l model.Location) locationView {
    return locationView{
        ID:           l.ID,
        Name:         l.Name,
        Latitude:     l.Latitude,
        Longitude:    l.Longitude,
        RoomCount:    l.RoomCount,
        IsPhysio:     l.IsPhysio,
        IsGarageSale: l.IsGarageSale,
    }
}

func toLocationViews(ls []model.Location) []locationView {
    out := make([]locationView, len(ls))
    for i, l := range ls {
        out[i] = toLocationView(l)
    }
    return out
}

type appointmentView struct {
    ID           uint64  `json:"id"`
    LocationID   *uint64 `json:"location_id,omitempty"`
    LocationName string  `json:"location_name,omitempty"`
    ConsultantID *uint64 `json:"consultant_id,omitempty"`
    Date         string  `json:"date"`
    Time         string  `json:"time"`
    Status       string  `json:"status"`
    RoomNumber   *uint32 `json:"room_number,omitempty"`
}

func toAppointmentView(a model.Appointment) appointmentView {
    return appointmentView{
        ID:           a.ID,
        LocationID:   a.LocationID,
        ConsultantID: a.ConsultantID,
        Date:         a.Date,
        Time:         a.Time,
        Status:       a.Status,
        RoomNumber:   a.RoomNumber,
    }
}

func toAppointmentViews(as []model.Appointment) []appointmentView {
    out := make([]appointmentView, len(as))
    for i, a := range as {
        out[i] = toAppointmentView(a)
    }
    return out
}

func toOwnerAppointmentViews(as []repository.OwnerAppointment) []appointmentView {
    out := make([]appointmentView, len(as))
    for i, a := range as {
        out[i] = toAppointmentView(a.Appointment)
        out[i].LocationName = a.LocationName
    }
    return out
}

type eventView struct {
    ID           uint64  `json:"id"`
    LocationID   *uint64 `json:"location_id,omitempty"`
    ConsultantID *uint64 `json:"consultant_id,omitempty"`
    Title        string  `json:"title"`
    StartDate    string  `json:"start_date"`
    EndDate      string  `json:"end_date"`
}

func toEventView(e model.GarageSaleEvent) eventView {
    return eventView{
        ID:           e.ID,
        LocationID:   e.LocationID,
        ConsultantID: e.ConsultantID,
        Title:        e.Title,
        StartDate:    e.StartDate,
        EndDate:      e.EndDate,
    }
}

func toEventViews(es []model.GarageSaleEvent) []eventView {
    out := make([]eventView, len(es))
    for i, e := range es {
        out[i] = toEventView(e)
    }
    return out
}

type mapEventView struct {
    eventView
    LocationName string  `json:"location_name"`
    Latitude     float64 `json:"latitude"`
    Longitude    float64 `json:"longitude"`
}

func toMapEventViews(es []repository.MapEvent) []mapEventView {
    out := make([]mapEventView, len(es))
    for i, e := range es {
        out[i] = mapEventView{
            eventView:    toEventView(e.GarageSaleEvent),
            LocationName: e.LocationName,
            Latitude:     e.Latitude,
            Longitude:    e.Longitude,
        }
    }
    return out
}

type itemView struct {
    ID                uint64 `json:"id"`
    EventID           uint64 `json:"event_id"`
    Title             string `json:"title"`
    Description       string `json:"description"`
    PriceCents        uint32 `json:"price_cents"`
    QuantityAvailable uint32 `json:"quantity_available"`
    IsListed          bool   `json:"is_listed"`
}

func toItemView(it model.SaleItem) itemView {
    return itemView{
        ID:                it.ID,
        EventID:           it.EventID,
        Title:             it.Title,
        Description:       it.Description,
        PriceCents:        it.PriceCents,
        QuantityAvailable: it.QuantityAvailable,
        IsListed:          it.IsListed,
    }
}

func toItemViews(its []model.SaleItem) []itemView {
    out := make([]itemView, len(its))
    for i, it := range its {
        out[i] = toItemView(it)
    }
    return out
}

type reservationView struct {
    ID            uint64     `json:"id"`
    EventID       uint64     `json:"event_id"`
    EventTitle    string     `json:"event_title,omitempty"`
    Status        string     `json:"status"`
    PaymentStatus string     `json:"payment_status"`
    ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
    TotalCents    uint64     `json:"total_cents"`
    Lines         []repository.ReservationLine `json:"lines"`
}

func toReservationViews(rs []repository.CustomerReservation) []reservationView {
    out := make([]reservationView, len(rs))
    for i, r := range rs {
        out[i] = reservationView{
            ID:            r.ID,
            EventID:       r.EventID,
            EventTitle:    r.EventTitle,
            Status:        r.Status,
            PaymentStatus: r.PaymentStatus,
            ConfirmedAt:   r.ConfirmedAt,
            TotalCents:    r.TotalCents,
            Lines:         r.Lines,
        }
    }
    return out
}
