package router

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/handler"
    "github.com/localmart/local-services/internal/utils"
)

const testSecret = "router-test-secret"

func newConsultantServer(t *testing.T) *echo.Echo {
    t.Helper()
    e := echo.New()
    RegisterConsultant(e, handler.NewConsultantHandler(nil, nil, false), handler.NewPickupHandler(nil), testSecret)
    return e
}

// The action-link routes must reject anonymous callers: the token in
// the URL only locates the appointment, it is not a credential, so a
// forwarded or leaked link alone cannot decide anything.
func TestTokenRoutesRequireAuth(t *testing.T) {
    e := newConsultantServer(t)
    for _, path := range []string{
        "/v1/appointments/token/abc123/accept",
        "/v1/appointments/token/abc123/decline",
    } {
        req := httptest.NewRequest(http.MethodPost, path, nil)
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, req)
        if rec.Code != http.StatusUnauthorized {
            t.Fatalf("%s without auth: status = %d, want 401", path, rec.Code)
        }
    }
}

// A signed-in customer holding someone's action link is still the
// wrong role for the decision routes.
func TestTokenRoutesRejectNonConsultants(t *testing.T) {
    e := newConsultantServer(t)
    at, err := utils.NewAccessToken(testSecret, 7, "CUSTOMER", 5)
    if err != nil {
        t.Fatalf("issue token: %v", err)
    }
    for _, path := range []string{
        "/v1/appointments/token/abc123/accept",
        "/v1/appointments/token/abc123/decline",
    } {
        req := httptest.NewRequest(http.MethodPost, path, nil)
        req.Header.Set("Authorization", "Bearer "+at.Token)
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, req)
        if rec.Code != http.StatusForbidden {
            t.Fatalf("customer on %s: status = %d, want 403", path, rec.Code)
        }
    }
}

// The interactive decision routes sit behind the same gate.
func TestConsultantRoutesRequireAuth(t *testing.T) {
    e := newConsultantServer(t)
    req := httptest.NewRequest(http.MethodPost, "/v1/consultant/appointments/5/accept", nil)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    if rec.Code != http.StatusUnauthorized {
        t.Fatalf("status = %d, want 401", rec.Code)
    }
}
