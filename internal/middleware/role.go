package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/localmart/local-services/internal/model"
)

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  Roles are the
// typed constants from the model package; they correspond to the
// values stored in the JWT's "role" claim.  If the user's role is not
// in the allowed set, the request is aborted with a 403 Forbidden
// response.  It assumes a previous middleware has extracted the role
// into the context under the key "role".
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant-time lookups.  The map
    // value is a boolean and is always true when present.
    allowed := make(map[model.Role]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Retrieve the role from context.  It should have been
            // stored by JWTAuth middleware as a string.  Unknown
            // values never parse into the closed role set, so a stale
            // or forged claim falls through to the 403 below.
            v := c.Get("role")
            s, ok := v.(string)
            if !ok {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            role, ok := model.ParseRole(s)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            // Otherwise call the next handler in the chain
            return next(c)
        }
    }
}
