package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/model"
)

// PostLogin resolves the dashboard route for the caller's role within
// the requested service.  The service is an explicit query parameter
// so the decision is stateless; it defaults to physio.
func PostLogin(c echo.Context) error {
    service := c.QueryParam("service")
    switch service {
    case "", "physio":
        service = "physio"
    case "garage_sale":
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service"})
    }

    roleStr, _ := c.Get("role").(string)
    role, ok := model.ParseRole(roleStr)
    if !ok {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }

    var next string
    switch role {
    case model.RoleCustomer:
        if service == "physio" {
            next = "/v1/physio/map"
        } else {
            next = "/v1/garage-sale/map"
        }
    case model.RoleConsultant:
        if service == "physio" {
            next = "/v1/consultant/requests"
        } else {
            next = "/v1/consultant/pickups"
        }
    case model.RoleLocationOwner:
        if service == "physio" {
            next = "/v1/owner/locations"
        } else {
            next = "/v1/owner/events"
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"service": service, "next": next})
}
