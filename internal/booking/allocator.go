// Package booking contains the slot-allocation and accept/decline
// decision logic for physio appointments.  Everything here is pure:
// callers gather the current state of a slot inside a transaction,
// ask this package for a verdict and then apply it within the same
// transaction so that two consultants racing on overlapping requests
// cannot both consume the last room.
package booking

// PickRoom returns the lowest room number in 1..roomCount that does not
// appear in taken.  The boolean is false when every room is occupied or
// roomCount is zero.  A full slot is a legitimate outcome, not an
// error; the caller turns it into an auto-decline.
func PickRoom(roomCount uint32, taken []uint32) (uint32, bool) {
    if roomCount == 0 {
        return 0, false
    }
    used := make(map[uint32]struct{}, len(taken))
    for _, r := range taken {
        used[r] = struct{}{}
    }
    for r := uint32(1); r <= roomCount; r++ {
        if _, ok := used[r]; !ok {
            return r, true
        }
    }
    return 0, false
}
