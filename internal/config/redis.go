package config

// Redis backs the response cache and the rate limiter on the public
// browse routes.  Both are optional tiers: when no server is reachable
// the constructor returns nil and the middleware degrades to
// pass-through, so a missing Redis never takes the marketplace down.

import (
    "context"
    "os"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client from the environment and verifies the
// connection with a short ping.  REDIS_URL (redis://...) wins when
// set; otherwise REDIS_ADDR or REDIS_HOST/REDIS_PORT plus
// REDIS_PASSWORD and REDIS_DB are consulted.  Returns nil when the
// server cannot be reached.
func NewRedisClient() *redis.Client {
    var opts *redis.Options
    if u := os.Getenv("REDIS_URL"); u != "" {
        if parsed, err := redis.ParseURL(u); err == nil {
            opts = parsed
        }
    }
    if opts == nil {
        addr := os.Getenv("REDIS_ADDR")
        if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
            addr = host + ":" + port
        }
        if addr == "" {
            addr = "localhost:6379"
        }
        db := 0
        if v := os.Getenv("REDIS_DB"); v != "" {
            if n, err := strconv.Atoi(v); err == nil {
                db = n
            }
        }
        opts = &redis.Options{
            Addr:     addr,
            Password: os.Getenv("REDIS_PASSWORD"),
            DB:       db,
        }
    }

    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
