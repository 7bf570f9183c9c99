package stock

import "testing"

func TestFindShortagesNoneWhenStockSuffices(t *testing.T) {
    lines := []LineCheck{
        {ItemID: 1, Title: "Lamp", Requested: 1, Available: 1, Exists: true},
        {ItemID: 2, Title: "Chair", Requested: 2, Available: 5, Exists: true},
    }
    if got := FindShortages(lines); len(got) != 0 {
        t.Fatalf("expected no shortages, got %v", got)
    }
}

func TestFindShortagesReportsEveryFailingLine(t *testing.T) {
    lines := []LineCheck{
        {ItemID: 1, Title: "Lamp", Requested: 1, Available: 0, Exists: true},
        {ItemID: 2, Title: "Chair", Requested: 2, Available: 5, Exists: true},
        {ItemID: 3, Title: "Rug", Requested: 3, Available: 1, Exists: true},
    }
    got := FindShortages(lines)
    if len(got) != 2 {
        t.Fatalf("expected 2 shortages, got %d", len(got))
    }
    if got[0].Title != "Lamp" || got[0].Available != 0 || got[0].Requested != 1 {
        t.Fatalf("unexpected first shortage: %+v", got[0])
    }
    if got[1].Title != "Rug" || got[1].Available != 1 || got[1].Requested != 3 {
        t.Fatalf("unexpected second shortage: %+v", got[1])
    }
}

// The Lamp scenario: quantity 1, two carts each wanting one.  After the
// first confirmation decrements to zero, the second check must name the
// item with available=0, requested=1.
func TestFindShortagesAfterConcurrentSale(t *testing.T) {
    second := []LineCheck{{ItemID: 7, Title: "Lamp", Requested: 1, Available: 0, Exists: true}}
    got := FindShortages(second)
    if len(got) != 1 {
        t.Fatalf("expected exactly one shortage, got %d", len(got))
    }
    s := got[0]
    if s.Title != "Lamp" || s.Available != 0 || s.Requested != 1 {
        t.Fatalf("shortage should name Lamp available=0 requested=1, got %+v", s)
    }
}

func TestFindShortagesMissingItem(t *testing.T) {
    got := FindShortages([]LineCheck{{ItemID: 9, Requested: 1}})
    if len(got) != 1 || got[0].Title != "Unknown" {
        t.Fatalf("missing item should report Unknown shortage, got %v", got)
    }
}
