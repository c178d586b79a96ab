package config // package config loads application configuration from environment variables

import (
    "strings"
)

// Store backends selectable through STORE_BACKEND.
const (
    BackendMemory   = "memory"
    BackendMySQL    = "mysql"
    BackendPostgres = "postgres"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database settings are only required for the
// backend that uses them.
type Config struct {
    Env          string // application environment (local, dev, prod)
    Port         string // HTTP port to listen on
    StoreBackend string // memory, mysql or postgres
    DBUser       string // mysql user
    DBPass       string // mysql password (optional)
    DBHost       string // mysql host address
    DBPort       string // mysql port number
    DBName       string // mysql database name
    DatabaseURL  string // postgres connection string
    AutoMigrate  bool   // create tables on startup
    JWTSecret    string // secret used to sign access tokens
    AccessTTLMin int    // access token time-to-live in minutes
    BcryptCost   int    // bcrypt cost for password hashing
    AdminEmail   string // seeded admin account (skipped when empty)
    AdminName    string
    AdminPass    string
    Events       bool   // publish domain events to RabbitMQ
    CORSOrigins  []string
}

// Load reads configuration values from environment variables and returns a
// Config.  Every missing or malformed value is reported in the returned
// error.
func Load() (Config, error) {
    var e env
    cfg := Config{
        Env:          e.must("APP_ENV"),
        Port:         e.must("APP_PORT"),
        StoreBackend: strings.ToLower(envStr("STORE_BACKEND", BackendMemory)),
        AutoMigrate:  envBool("DB_AUTO_MIGRATE", true),
        JWTSecret:    e.must("JWT_SECRET"),
        AccessTTLMin: e.atoi("ACCESS_TOKEN_TTL_MIN", 60),
        BcryptCost:   e.atoi("BCRYPT_COST", 10),
        AdminEmail:   envStr("ADMIN_EMAIL", ""),
        AdminName:    envStr("ADMIN_NAME", "Admin User"),
        AdminPass:    envStr("ADMIN_PASSWORD", ""),
        Events:       envBool("EVENTS_ENABLED", false),
        CORSOrigins:  splitList(envStr("CORS_ORIGINS", "*")),
    }
    switch cfg.StoreBackend {
    case BackendMemory:
    case BackendMySQL:
        cfg.DBUser = e.must("DB_USER")
        cfg.DBPass = envStr("DB_PASS", "")
        cfg.DBHost = e.must("DB_HOST")
        cfg.DBPort = e.must("DB_PORT")
        cfg.DBName = e.must("DB_NAME")
    case BackendPostgres:
        cfg.DatabaseURL = e.must("DATABASE_URL")
    default:
        e.fail("invalid STORE_BACKEND %q (want memory, mysql or postgres)", cfg.StoreBackend)
    }
    if cfg.AccessTTLMin <= 0 {
        e.fail("ACCESS_TOKEN_TTL_MIN must be positive, got %d", cfg.AccessTTLMin)
    }
    return cfg, e.err()
}

func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
