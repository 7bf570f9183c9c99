package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/model"
)

func runRoleCheck(t *testing.T, roleClaim interface{}, allowed ...model.Role) int {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if roleClaim != nil {
        c.Set("role", roleClaim)
    }
    next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
    if err := RequireRole(allowed...)(next)(c); err != nil {
        t.Fatalf("middleware returned error: %v", err)
    }
    return rec.Code
}

func TestRequireRoleAllowsMatch(t *testing.T) {
    code := runRoleCheck(t, "CONSULTANT", model.RoleConsultant)
    if code != http.StatusOK {
        t.Fatalf("status = %d, want 200", code)
    }
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
    code := runRoleCheck(t, "CUSTOMER", model.RoleConsultant)
    if code != http.StatusForbidden {
        t.Fatalf("status = %d, want 403", code)
    }
}

func TestRequireRoleRejectsUnknownClaim(t *testing.T) {
    if code := runRoleCheck(t, "ADMIN", model.RoleConsultant, model.RoleCustomer); code != http.StatusForbidden {
        t.Fatalf("unknown role: status = %d, want 403", code)
    }
    if code := runRoleCheck(t, nil, model.RoleConsultant); code != http.StatusForbidden {
        t.Fatalf("missing role: status = %d, want 403", code)
    }
    if code := runRoleCheck(t, 7, model.RoleConsultant); code != http.StatusForbidden {
        t.Fatalf("non-string role: status = %d, want 403", code)
    }
}
