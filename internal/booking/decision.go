package booking

// Decline reasons reported back to the acting consultant when an accept
// attempt turns into an auto-decline.  Auto-declining keeps the
// requester's slot out of limbo: a conflict becomes a deterministic,
// visible outcome instead of a transaction abort.
const (
    ReasonConsultantBusy = "you already have an accepted booking at that time"
    ReasonNoRooms        = "no rooms available at that timeslot"
    ReasonSlotContended  = "the slot was taken by a concurrent booking"
)

// AcceptOutcome is the verdict of DecideAccept.  When Accepted is true,
// Room holds the allocated room number (nil for appointments without a
// location).  When false, Reason explains the auto-decline.
type AcceptOutcome struct {
    Accepted bool
    Room     *uint32
    Reason   string
}

// SlotState is a snapshot of everything the accept decision depends on,
// read under the same transaction that will apply the outcome.
//
//  ConsultantBusy – another ACCEPTED appointment exists for this
//                   consultant at the same date/time.
//  HasLocation    – the appointment references a location; only then is
//                   a room allocated.
//  RoomCount      – the location's room count (ignored without location).
//  TakenRooms     – room numbers of ACCEPTED appointments sharing the
//                   location/date/time, excluding the appointment under
//                   consideration.
type SlotState struct {
    ConsultantBusy bool
    HasLocation    bool
    RoomCount      uint32
    TakenRooms     []uint32
}

// DecideAccept evaluates an accept request against the slot snapshot.
// Consultant conflicts are checked before room availability so the
// reported reason names the first violated invariant.  The result must
// be persisted in the same transaction the snapshot was read in.
func DecideAccept(s SlotState) AcceptOutcome {
    if s.ConsultantBusy {
        return AcceptOutcome{Reason: ReasonConsultantBusy}
    }
    if !s.HasLocation {
        return AcceptOutcome{Accepted: true}
    }
    room, ok := PickRoom(s.RoomCount, s.TakenRooms)
    if !ok {
        return AcceptOutcome{Reason: ReasonNoRooms}
    }
    return AcceptOutcome{Accepted: true, Room: &room}
}

// ContendedOutcome is the auto-decline verdict for a conflict detected
// only by the database, after DecideAccept already approved: a
// concurrent transaction claimed the consultant's calendar or the last
// room between the snapshot reads and the status flip.  The database
// cannot tell which uniqueness rule fired, so the reason stays neutral
// rather than guessing.
func ContendedOutcome() AcceptOutcome {
    return AcceptOutcome{Reason: ReasonSlotContended}
}
