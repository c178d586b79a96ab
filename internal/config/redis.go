package config

// Redis backs the login rate limiter and the stats response cache.  Both
// degrade to pass-through when no client is available, so a failed
// connection at startup is logged and reported as nil.

import (
    "context"
    "crypto/tls"
    "os"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"
)

// NewRedisClient instantiates a Redis client using environment variables:
//   REDIS_ADDR – host:port (REDIS_HOST + REDIS_PORT take precedence)
//   REDIS_PASSWORD – optional password
//   REDIS_DB – database number (default 0)
//   REDIS_TLS – enable TLS when "true" or "1"
// Setting REDIS_DISABLED skips Redis entirely.
func NewRedisClient(log *logrus.Entry) *redis.Client {
    if envBool("REDIS_DISABLED", false) {
        log.Info("redis disabled; cache and rate limit are pass-through")
        return nil
    }
    addr := os.Getenv("REDIS_ADDR")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }
    var tlsConf *tls.Config
    if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
        tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    var e env
    db := e.atoi("REDIS_DB", 0)
    if err := e.err(); err != nil {
        log.WithError(err).Error("invalid redis settings; cache and rate limit are pass-through")
        return nil
    }
    client := redis.NewClient(&redis.Options{
        Addr:      addr,
        Password:  os.Getenv("REDIS_PASSWORD"),
        DB:        db,
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.WithError(err).WithField("addr", addr).Warn("redis unavailable; cache and rate limit are pass-through")
        _ = client.Close()
        return nil
    }
    return client
}
