package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/config"
)

func postRegister(t *testing.T, body string) int {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    h := NewAuthHandler(config.Config{}, nil, nil, nil)
    if err := h.Register(c); err != nil {
        t.Fatalf("handler returned error: %v", err)
    }
    return rec.Code
}

// An owner registering with a bundled physio venue hits the same room
// bounds as the standalone location endpoint, and is rejected before
// any row is written.
func TestRegisterRejectsBadRoomCount(t *testing.T) {
    for _, rooms := range []string{"0", "9"} {
        body := `{"email":"owner@example.test","password":"pw","role":"LOCATION_OWNER",` +
            `"location":{"name":"Clinic","is_physio":true,"room_count":` + rooms + `}}`
        if code := postRegister(t, body); code != http.StatusBadRequest {
            t.Fatalf("room_count=%s: status = %d, want 400", rooms, code)
        }
    }
}
