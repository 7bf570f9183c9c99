package middleware

import (
    "bytes"
    "context"
    "crypto/sha256"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/localmart/local-services/internal/config"
)

// cachedReply is the envelope stored in Redis for one cacheable
// response.  Headers ride along so replays keep the content type and
// formatting of the original.
type cachedReply struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// replyRecorder tees the response to the client while keeping a copy
// for the cache, up to limit bytes.  An oversized body flips overflow
// and is never stored; a truncated entry would corrupt replays.
type replyRecorder struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    overflow bool
    limit    int
}

func (rr *replyRecorder) WriteHeader(code int) {
    rr.status = code
    rr.ResponseWriter.WriteHeader(code)
}

func (rr *replyRecorder) Write(b []byte) (int, error) {
    if !rr.overflow {
        if rr.limit > 0 && rr.buf.Len()+len(b) > rr.limit {
            rr.overflow = true
        } else {
            rr.buf.Write(b)
        }
    }
    return rr.ResponseWriter.Write(b)
}

// cacheKey hashes the request shape under the configured prefix.  The
// map and browse routes vary only by route and query; the
// route_query_user strategy additionally partitions per caller for
// responses that depend on who is asking.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
    var tail string
    switch cfg.KeyStrategy {
    case "route":
        tail = c.Path()
    case "route_query_user":
        tail = c.Path() + "?" + c.Request().URL.RawQuery + "@" + actorKey(c)
    default: // route_query
        tail = c.Path() + "?" + c.Request().URL.RawQuery
    }
    sum := sha256.Sum256([]byte(tail))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:16])
}

// NewRedisCache caches successful GET responses in Redis.  With
// caching disabled or no Redis client it degrades to a pass-through,
// so the browse endpoints keep working without the cache tier.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKey(cfg, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var cr cachedReply
                if json.Unmarshal(bs, &cr) == nil {
                    h := c.Response().Header()
                    for k, vals := range cr.Header {
                        if strings.EqualFold(k, "Content-Length") {
                            continue
                        }
                        for _, v := range vals {
                            h.Add(k, v)
                        }
                    }
                    h.Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cr.Status)
                    if len(cr.Body) > 0 {
                        _, _ = c.Response().Write(cr.Body)
                    }
                    return nil
                }
            }

            rr := &replyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
            c.Response().Writer = rr
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if rr.status != http.StatusOK || rr.overflow {
                return nil
            }

            hdr := make(http.Header, len(c.Response().Header()))
            for k, vals := range c.Response().Header() {
                hdr[k] = append([]string(nil), vals...)
            }
            if bs, err := json.Marshal(cachedReply{Status: rr.status, Header: hdr, Body: rr.buf.Bytes()}); err == nil {
                // the request context may be done once the reply is out
                _ = rdb.SetEx(context.Background(), key, bs, ttl).Err()
            }
            return nil
        }
    }
}
