package queue

// Wire shapes for marketplace events published to RabbitMQ.  Each
// payload carries a version so consumers can evolve independently of
// the service.

// AppointmentDecidedEvent is emitted whenever a PENDING appointment
// transitions to ACCEPTED or DECLINED, on both the authenticated and
// the token decision paths.
type AppointmentDecidedEvent struct {
    Version       int     `json:"version"`
    AppointmentID uint64  `json:"appointment_id"`
    ConsultantID  uint64  `json:"consultant_id"`
    Status        string  `json:"status"`
    RoomNumber    *uint32 `json:"room_number,omitempty"`
    Reason        string  `json:"reason,omitempty"`
    Date          string  `json:"date"`
    Time          string  `json:"time"`
}

// ReservationConfirmedEvent is emitted when a draft reservation is
// confirmed and its stock decrements commit.
type ReservationConfirmedEvent struct {
    Version       int    `json:"version"`
    ReservationID uint64 `json:"reservation_id"`
    EventID       uint64 `json:"event_id"`
    CustomerID    uint64 `json:"customer_id"`
    TotalCents    uint64 `json:"total_cents"`
    LineCount     int    `json:"line_count"`
}

// Routing keys for the marketplace exchange.
const (
    RouteAppointmentDecided  = "appointment.decided"
    RouteReservationConfirmed = "reservation.confirmed"
)
