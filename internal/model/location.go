package model

import "time"

// Location represents a bookable premises on the map.  A location is
// optionally owned by a LOCATION_OWNER account and carries service
// flags for the two verticals plus a bounded number of treatment rooms
// used by the physio slot allocator.  Consultants are linked through
// the location_consultants join table.
//
// Fields:
//  ID           – primary key identifier.
//  OwnerID      – user ID of the owning LOCATION_OWNER (nil when unowned).
//  Name         – display name of the location.
//  Latitude     – map coordinate (nil when not geocoded).
//  Longitude    – map coordinate (nil when not geocoded).
//  RoomCount    – number of physio rooms, 1..3; bounds room numbering.
//  IsPhysio     – whether the location appears on the physio map.
//  IsGarageSale – whether the location hosts garage sale events.
//  CreatedAt    – creation timestamp.
type Location struct {
    ID           uint64    // locations.id
    OwnerID      *uint64   // locations.owner_id (nullable)
    Name         string    // locations.name
    Latitude     *float64  // locations.latitude (nullable)
    Longitude    *float64  // locations.longitude (nullable)
    RoomCount    uint32    // locations.room_count
    IsPhysio     bool      // locations.is_physio
    IsGarageSale bool      // locations.is_garage_sale
    CreatedAt    time.Time // locations.created_at
}
