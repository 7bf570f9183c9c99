package model

import "testing"

func TestParseRoleKnownValues(t *testing.T) {
    cases := map[string]Role{
        "CUSTOMER":       RoleCustomer,
        "CONSULTANT":     RoleConsultant,
        "LOCATION_OWNER": RoleLocationOwner,
    }
    for in, want := range cases {
        got, ok := ParseRole(in)
        if !ok {
            t.Fatalf("ParseRole(%q) not ok", in)
        }
        if got != want {
            t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
        }
    }
}

func TestParseRoleRejectsUnknown(t *testing.T) {
    for _, in := range []string{"", "ADMIN", "customer", "OWNER", "Consultant"} {
        if _, ok := ParseRole(in); ok {
            t.Fatalf("ParseRole(%q) accepted an unknown role", in)
        }
    }
}
