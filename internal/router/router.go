package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/handler"
	"github.com/iliyamo/inspection-case-backend/internal/middleware"
)

// Use installs the process-wide middleware chain: request ids, panic
// recovery, CORS for the browser client and structured access logs.
func Use(e *echo.Echo, corsOrigins []string, log *logrus.Entry) {
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLogger(log))
}

// RegisterRoutes registers routes that do not require authentication.
// db may be nil for the in-memory backend.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// Guards are the per-route middlewares built once in main.
type Guards struct {
	Auth       echo.MiddlewareFunc // middleware.JWTAuth
	RateLimit  echo.MiddlewareFunc // on /api/auth/*
	StatsCache echo.MiddlewareFunc // on GET /api/stats
	Invalidate echo.MiddlewareFunc // drops cached stats after writes
}

// RegisterAuth registers sign-up and login under /api/auth behind the rate
// limiter, plus the authenticated /api/me.  Sign-up adds a user and so
// invalidates cached stats.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, m Guards) {
	g := e.Group("/api/auth", m.RateLimit)
	g.POST("/register", a.Register, m.Invalidate)
	g.POST("/login", a.Login)

	e.GET("/api/me", a.Me, m.Auth)
}
