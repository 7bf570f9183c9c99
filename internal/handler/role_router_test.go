package handler

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
)

func callPostLogin(t *testing.T, role, service string) (*httptest.ResponseRecorder, map[string]string) {
    t.Helper()
    e := echo.New()
    target := "/v1/post-login"
    if service != "" {
        target += "?service=" + service
    }
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.Set("role", role)
    if err := PostLogin(c); err != nil {
        t.Fatalf("PostLogin: %v", err)
    }
    var body map[string]string
    if rec.Code == http.StatusOK {
        if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
            t.Fatalf("unmarshal response: %v", err)
        }
    }
    return rec, body
}

func TestPostLoginDefaultsToPhysio(t *testing.T) {
    rec, body := callPostLogin(t, "CUSTOMER", "")
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    if body["service"] != "physio" {
        t.Fatalf("service = %q, want physio", body["service"])
    }
    if body["next"] != "/v1/physio/map" {
        t.Fatalf("next = %q", body["next"])
    }
}

func TestPostLoginRoutesByRoleAndService(t *testing.T) {
    cases := []struct {
        role    string
        service string
        next    string
    }{
        {"CUSTOMER", "garage_sale", "/v1/garage-sale/map"},
        {"CONSULTANT", "physio", "/v1/consultant/requests"},
        {"CONSULTANT", "garage_sale", "/v1/consultant/pickups"},
        {"LOCATION_OWNER", "physio", "/v1/owner/locations"},
        {"LOCATION_OWNER", "garage_sale", "/v1/owner/events"},
    }
    for _, tc := range cases {
        rec, body := callPostLogin(t, tc.role, tc.service)
        if rec.Code != http.StatusOK {
            t.Fatalf("%s/%s: status = %d", tc.role, tc.service, rec.Code)
        }
        if body["next"] != tc.next {
            t.Fatalf("%s/%s: next = %q, want %q", tc.role, tc.service, body["next"], tc.next)
        }
    }
}

func TestPostLoginRejectsUnknownService(t *testing.T) {
    rec, _ := callPostLogin(t, "CUSTOMER", "laundry")
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d, want 400", rec.Code)
    }
}

func TestPostLoginRejectsUnknownRole(t *testing.T) {
    rec, _ := callPostLogin(t, "ADMIN", "physio")
    if rec.Code != http.StatusForbidden {
        t.Fatalf("status = %d, want 403", rec.Code)
    }
}
