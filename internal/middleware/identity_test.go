package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/localmart/local-services/internal/config"
)

func testCtx(t *testing.T, target string) echo.Context {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, target, nil)
    return e.NewContext(req, httptest.NewRecorder())
}

func TestActorKey(t *testing.T) {
    c := testCtx(t, "/")
    if got := actorKey(c); got != "guest" {
        t.Fatalf("anonymous actor = %q, want guest", got)
    }

    // JWT numeric claims arrive as float64, string subjects as-is
    c.Set("user_id", float64(42))
    if got := actorKey(c); got != "42" {
        t.Fatalf("float64 claim = %q, want 42", got)
    }
    c.Set("user_id", "17")
    if got := actorKey(c); got != "17" {
        t.Fatalf("string claim = %q, want 17", got)
    }
}

func TestCacheKeyPartitionsByActor(t *testing.T) {
    cfg := config.CacheConfig{Prefix: "mkt:cache", KeyStrategy: "route_query_user"}

    a := testCtx(t, "/v1/physio/map")
    a.Set("user_id", "1")
    b := testCtx(t, "/v1/physio/map")
    b.Set("user_id", "2")
    if cacheKey(cfg, a) == cacheKey(cfg, b) {
        t.Fatalf("per-user strategy produced a shared key")
    }

    // the default strategy shares entries across callers
    cfg.KeyStrategy = "route_query"
    if cacheKey(cfg, a) != cacheKey(cfg, b) {
        t.Fatalf("route_query strategy should ignore the actor")
    }
}

func TestRateKeyPartitionsByCaller(t *testing.T) {
    cfg := config.RateLimitConfig{Prefix: "mkt:rl", KeyStrategy: "user"}

    a := testCtx(t, "/v1/garage-sale/map")
    a.Set("user_id", "1")
    b := testCtx(t, "/v1/garage-sale/map")
    b.Set("user_id", "2")
    ka, kb := rateKey(cfg, a), rateKey(cfg, b)
    if ka == kb {
        t.Fatalf("per-user buckets collided: %q", ka)
    }
}
