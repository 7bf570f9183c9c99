package model

import "time"

// Reservation status values.  A reservation starts as a mutable DRAFT
// while the customer selects items, becomes CONFIRMED exactly once
// (atomically with the stock decrement) and may later be CANCELLED or
// FULFILLED by staff.  Lines of a CONFIRMED reservation are immutable.
const (
    ReservationDraft     = "DRAFT"
    ReservationConfirmed = "CONFIRMED"
    ReservationCancelled = "CANCELLED"
    ReservationFulfilled = "FULFILLED"
)

// Payment status values.  payment_status is recorded but never
// transitioned by this service.
const (
    PaymentUnpaid = "UNPAID"
    PaymentPaid   = "PAID"
)

// GarageSaleEvent is a dated sale hosted at a location.  The optional
// consultant is the default pickup contact copied onto reservations at
// confirmation time.
//
// Fields:
//  ID           – primary key identifier.
//  LocationID   – hosting location; nil after location deletion.
//  OwnerID      – LOCATION_OWNER who runs the event.
//  ConsultantID – default pickup consultant (nullable).
//  Title        – display title; may be empty.
//  StartDate    – first day of the sale, YYYY-MM-DD.
//  EndDate      – last day of the sale, YYYY-MM-DD.
type GarageSaleEvent struct {
    ID           uint64  // garage_sale_events.id
    LocationID   *uint64 // garage_sale_events.location_id (nullable)
    OwnerID      uint64  // garage_sale_events.owner_id
    ConsultantID *uint64 // garage_sale_events.consultant_id (nullable)
    Title        string  // garage_sale_events.title
    StartDate    string  // garage_sale_events.start_date
    EndDate      string  // garage_sale_events.end_date
}

// SaleItem is an item listed under an event.  QuantityAvailable is
// decremented only by reservation confirmation; owner edits may set it
// but never go below zero.
//
// Fields:
//  ID                – primary key identifier.
//  EventID           – owning event.
//  Title             – item title.
//  Description       – free-form description.
//  PriceCents        – listed price in cents.
//  QuantityAvailable – remaining stock, >= 0.
//  IsListed          – whether the item is visible to customers.
//  CreatedAt         – creation timestamp.
type SaleItem struct {
    ID                uint64    // sale_items.id
    EventID           uint64    // sale_items.event_id
    Title             string    // sale_items.title
    Description       string    // sale_items.description
    PriceCents        uint32    // sale_items.price_cents
    QuantityAvailable uint32    // sale_items.quantity_available
    IsListed          bool      // sale_items.is_listed
    CreatedAt         time.Time // sale_items.created_at
}

// Reservation aggregates a customer's selected items for one event.
// At most one DRAFT exists per (customer, event); get-or-create
// semantics in the repository enforce this.
//
// Fields:
//  ID            – primary key identifier.
//  EventID       – event being shopped.
//  CustomerID    – customer who owns the reservation.
//  Status        – DRAFT, CONFIRMED, CANCELLED or FULFILLED.
//  PaymentStatus – UNPAID or PAID; never transitioned here.
//  ConsultantID  – assigned pickup consultant (nullable).
//  CreatedAt     – creation timestamp.
//  ConfirmedAt   – set exactly once at confirmation (nullable).
type Reservation struct {
    ID            uint64     // reservations.id
    EventID       uint64     // reservations.event_id
    CustomerID    uint64     // reservations.customer_id
    Status        string     // reservations.status
    PaymentStatus string     // reservations.payment_status
    ConsultantID  *uint64    // reservations.consultant_id (nullable)
    CreatedAt     time.Time  // reservations.created_at
    ConfirmedAt   *time.Time // reservations.confirmed_at (nullable)
}

// ReservationItem is one line of a reservation.  (reservation, item) is
// unique.  PriceCents snapshots the item price at selection time so a
// later price edit never changes what a confirmed reservation owes.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – owning reservation.
//  ItemID        – referenced sale item.
//  Quantity      – units reserved.
//  PriceCents    – price per unit at selection time.
type ReservationItem struct {
    ID            uint64 // reservation_items.id
    ReservationID uint64 // reservation_items.reservation_id
    ItemID        uint64 // reservation_items.item_id
    Quantity      uint32 // reservation_items.quantity
    PriceCents    uint32 // reservation_items.price_cents
}
