package booking

import (
    "testing"
    "time"
)

func TestDecideAcceptAllocatesRoom(t *testing.T) {
    out := DecideAccept(SlotState{HasLocation: true, RoomCount: 2})
    if !out.Accepted {
        t.Fatalf("expected accept, got decline: %s", out.Reason)
    }
    if out.Room == nil || *out.Room != 1 {
        t.Fatalf("expected room 1, got %v", out.Room)
    }
}

func TestDecideAcceptWithoutLocation(t *testing.T) {
    out := DecideAccept(SlotState{HasLocation: false})
    if !out.Accepted {
        t.Fatalf("expected accept, got decline: %s", out.Reason)
    }
    if out.Room != nil {
        t.Fatalf("no location should mean no room, got %d", *out.Room)
    }
}

func TestDecideAcceptConsultantConflict(t *testing.T) {
    out := DecideAccept(SlotState{ConsultantBusy: true, HasLocation: true, RoomCount: 3})
    if out.Accepted {
        t.Fatalf("expected auto-decline")
    }
    if out.Reason != ReasonConsultantBusy {
        t.Fatalf("wrong reason: %s", out.Reason)
    }
    if out.Room != nil {
        t.Fatalf("declined outcome must not carry a room")
    }
}

// Consultant conflict wins over room availability in the reported reason.
func TestDecideAcceptConflictCheckedFirst(t *testing.T) {
    out := DecideAccept(SlotState{
        ConsultantBusy: true,
        HasLocation:    true,
        RoomCount:      1,
        TakenRooms:     []uint32{1},
    })
    if out.Accepted || out.Reason != ReasonConsultantBusy {
        t.Fatalf("expected consultant-busy decline, got %+v", out)
    }
}

// Location with room_count=1: first accept takes room 1, the second
// request for the same slot auto-declines with the no-rooms reason.
func TestDecideAcceptSingleRoomRace(t *testing.T) {
    first := DecideAccept(SlotState{HasLocation: true, RoomCount: 1})
    if !first.Accepted || first.Room == nil || *first.Room != 1 {
        t.Fatalf("first accept should take room 1, got %+v", first)
    }

    second := DecideAccept(SlotState{
        HasLocation: true,
        RoomCount:   1,
        TakenRooms:  []uint32{*first.Room},
    })
    if second.Accepted {
        t.Fatalf("second accept should auto-decline")
    }
    if second.Reason != ReasonNoRooms {
        t.Fatalf("wrong reason: %s", second.Reason)
    }
}

// Two pending appointments for the same consultant at the same slot:
// the one decided first is accepted, and the later one then observes
// ConsultantBusy, so exactly one ends up accepted in either order.
func TestDecideAcceptSameConsultantEitherOrder(t *testing.T) {
    first := DecideAccept(SlotState{})
    if !first.Accepted {
        t.Fatalf("first decision should accept: %s", first.Reason)
    }
    second := DecideAccept(SlotState{ConsultantBusy: first.Accepted})
    if second.Accepted {
        t.Fatalf("second decision for the same consultant/slot must decline")
    }
    if second.Reason != ReasonConsultantBusy {
        t.Fatalf("wrong reason: %s", second.Reason)
    }
}

// A uniqueness index rejecting the status flip can mean either the
// consultant's calendar or the last room was claimed concurrently; the
// database does not say which, so the outcome carries its own neutral
// reason rather than borrowing one of the snapshot reasons.
func TestContendedOutcome(t *testing.T) {
    out := ContendedOutcome()
    if out.Accepted {
        t.Fatalf("contended outcome must decline")
    }
    if out.Room != nil {
        t.Fatalf("contended outcome must not carry a room")
    }
    if out.Reason != ReasonSlotContended {
        t.Fatalf("wrong reason: %s", out.Reason)
    }
    if out.Reason == ReasonConsultantBusy || out.Reason == ReasonNoRooms {
        t.Fatalf("contended reason must not claim a specific cause")
    }
}

func TestTokenUsable(t *testing.T) {
    now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

    if !TokenUsable(nil, now) {
        t.Fatalf("nil expiry should be usable")
    }

    future := now.Add(time.Hour)
    if !TokenUsable(&future, now) {
        t.Fatalf("unexpired token should be usable")
    }

    past := now.Add(-time.Minute)
    if TokenUsable(&past, now) {
        t.Fatalf("expired token should not be usable")
    }

    // boundary: expiry exactly now counts as expired
    if TokenUsable(&now, now) {
        t.Fatalf("token expiring now should not be usable")
    }
}
