// Package stock validates reservation lines against locked sale-item
// rows.  The caller locks every referenced item (SELECT ... FOR UPDATE,
// item id ascending) before building LineChecks, so the quantities seen
// here cannot move under a concurrent confirmation.
package stock

// LineCheck pairs one reservation line with the locked state of its
// target item.  Exists is false when the item row no longer exists.
type LineCheck struct {
    ItemID    uint64
    Title     string
    Requested uint32
    Available uint32
    Exists    bool
}

// Shortage describes a line that cannot be fulfilled, with enough
// detail for the customer to fix their cart.
type Shortage struct {
    ItemID    uint64 `json:"item_id"`
    Title     string `json:"title"`
    Available uint32 `json:"available"`
    Requested uint32 `json:"requested"`
}

// FindShortages returns one Shortage per unfulfillable line, preserving
// line order.  An empty result means every line can be decremented.
// Confirmation is all-or-nothing: any shortage aborts the whole
// transaction and every failing line is reported, not just the first.
func FindShortages(lines []LineCheck) []Shortage {
    var out []Shortage
    for _, ln := range lines {
        if !ln.Exists {
            out = append(out, Shortage{ItemID: ln.ItemID, Title: "Unknown", Requested: ln.Requested})
            continue
        }
        if ln.Available < ln.Requested {
            out = append(out, Shortage{
                ItemID:    ln.ItemID,
                Title:     ln.Title,
                Available: ln.Available,
                Requested: ln.Requested,
            })
        }
    }
    return out
}
