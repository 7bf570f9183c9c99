package booking

import "testing"

func TestPickRoomLowestFree(t *testing.T) {
    room, ok := PickRoom(3, nil)
    if !ok || room != 1 {
        t.Fatalf("expected room 1, got %d (ok=%v)", room, ok)
    }

    room, ok = PickRoom(3, []uint32{1})
    if !ok || room != 2 {
        t.Fatalf("expected room 2, got %d (ok=%v)", room, ok)
    }

    // gap in the middle is filled first
    room, ok = PickRoom(3, []uint32{1, 3})
    if !ok || room != 2 {
        t.Fatalf("expected room 2, got %d (ok=%v)", room, ok)
    }
}

func TestPickRoomNeverReturnsTaken(t *testing.T) {
    taken := []uint32{2, 3}
    room, ok := PickRoom(3, taken)
    if !ok {
        t.Fatalf("room 1 should still be free")
    }
    for _, r := range taken {
        if room == r {
            t.Fatalf("allocated already-taken room %d", r)
        }
    }
}

func TestPickRoomExhausted(t *testing.T) {
    if _, ok := PickRoom(3, []uint32{1, 2, 3}); ok {
        t.Fatalf("expected no room when all are taken")
    }
    if _, ok := PickRoom(0, nil); ok {
        t.Fatalf("expected no room when room count is zero")
    }
}

// For every room count N, the allocator returns none exactly when the
// taken set already covers N distinct rooms.
func TestPickRoomFullIffAllTaken(t *testing.T) {
    for n := uint32(1); n <= 3; n++ {
        var taken []uint32
        for i := uint32(1); i <= n; i++ {
            if _, ok := PickRoom(n, taken); !ok {
                t.Fatalf("room_count=%d: exhausted with only %d taken", n, len(taken))
            }
            taken = append(taken, i)
        }
        if _, ok := PickRoom(n, taken); ok {
            t.Fatalf("room_count=%d: expected exhaustion with %d taken", n, len(taken))
        }
    }
}
