package middleware

// Shared identity helper for the Redis-backed middleware.  JWTAuth
// stores the token subject under "user_id" with whatever type the
// claim carried; actorKey normalizes it into a key-safe string so the
// rate limiter and cache can partition per caller.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// actorKey returns a stable per-caller identifier for Redis keys: the
// authenticated subject when present, "guest" on public routes.
func actorKey(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatInt(int64(v), 10)
    case uint64:
        return strconv.FormatUint(v, 10)
    case int64:
        return strconv.FormatInt(v, 10)
    }
    return "guest"
}
