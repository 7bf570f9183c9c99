package handler

import "testing"

func TestGetUserIDClaimTypes(t *testing.T) {
    // JWT numeric claims arrive as float64; string subjects must parse
    cases := []struct {
        in   interface{}
        want uint64
    }{
        {float64(42), 42},
        {"17", 17},
        {uint64(9), 9},
        {int64(3), 3},
    }
    for _, tc := range cases {
        got, err := getUserID(tc.in)
        if err != nil {
            t.Fatalf("getUserID(%v): %v", tc.in, err)
        }
        if got != tc.want {
            t.Fatalf("getUserID(%v) = %d, want %d", tc.in, got, tc.want)
        }
    }
}

func TestGetUserIDRejectsGarbage(t *testing.T) {
    for _, in := range []interface{}{nil, "", "abc", true, 3.5i} {
        if _, err := getUserID(in); err == nil {
            t.Fatalf("getUserID(%v) accepted invalid input", in)
        }
    }
}

func TestNormalizeSlot(t *testing.T) {
    cases := []struct {
        in   string
        want string
        ok   bool
    }{
        {"09:00", "09:00:00", true},
        {"15:00", "15:00:00", true},
        {"09:00:00", "09:00:00", true},
        {" 10:00 ", "10:00:00", true},
        {"12:00", "", false}, // noon break is not bookable
        {"08:00", "", false},
        {"", "", false},
        {"9am", "", false},
    }
    for _, tc := range cases {
        got, ok := normalizeSlot(tc.in)
        if ok != tc.ok || got != tc.want {
            t.Fatalf("normalizeSlot(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
        }
    }
}

func TestValidDate(t *testing.T) {
    if !validDate("2026-08-31") {
        t.Fatalf("valid date rejected")
    }
    for _, in := range []string{"", "31-08-2026", "2026-13-01", "2026-08-32", "today"} {
        if validDate(in) {
            t.Fatalf("validDate(%q) accepted invalid input", in)
        }
    }
}
