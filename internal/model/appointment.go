package model

import "time"

// Appointment status values.  An appointment is created PENDING by a
// customer and is decided exactly once by its consultant; ACCEPTED and
// DECLINED are terminal and kept for audit (appointments are never
// deleted).
const (
    AppointmentPending  = "PENDING"
    AppointmentAccepted = "ACCEPTED"
    AppointmentDeclined = "DECLINED"
)

// Appointment records a physio booking request for a slot.  Date and
// Time are stored as their wire representations (YYYY-MM-DD and
// HH:MM:SS) because MySQL DATE/TIME columns round-trip most reliably as
// strings.
//
// Fields:
//  ID            – primary key identifier.
//  LocationID    – booked location; nil after location deletion.
//  ConsultantID  – consultant asked to take the booking (nullable).
//  CreatedBy     – customer who requested the booking (nullable).
//  Date          – appointment date, YYYY-MM-DD.
//  Time          – appointment time, HH:MM:SS.
//  Status        – PENDING, ACCEPTED or DECLINED.
//  RoomNumber    – room assigned on acceptance, 1..room_count (nullable).
//  ActionToken   – unique credential for out-of-band accept/decline links.
//  TokenExpires  – expiry of the action token (nil = never expires).
//  CreatedAt     – creation timestamp.
type Appointment struct {
    ID           uint64     // appointments.id
    LocationID   *uint64    // appointments.location_id (nullable)
    ConsultantID *uint64    // appointments.consultant_id (nullable)
    CreatedBy    *uint64    // appointments.created_by (nullable)
    Date         string     // appointments.date
    Time         string     // appointments.time
    Status       string     // appointments.status
    RoomNumber   *uint32    // appointments.room_number (nullable)
    ActionToken  string     // appointments.action_token
    TokenExpires *time.Time // appointments.action_token_expires_at (nullable)
    CreatedAt    time.Time  // appointments.created_at
}
