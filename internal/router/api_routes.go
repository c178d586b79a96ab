package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inspection-case-backend/internal/handler"
	"github.com/iliyamo/inspection-case-backend/internal/middleware"
	"github.com/iliyamo/inspection-case-backend/internal/model"
)

// API groups the handlers served to any signed-in staff member.
type API struct {
	Users   *handler.UserHandler
	Cases   *handler.CaseHandler
	Clients *handler.ClientHandler
	Stats   *handler.StatsHandler
}

// RegisterAPI registers the case, client, stats and user routes under /api.
// Every route requires a valid token.  User management additionally
// requires ADMIN (see registerAdmin).  Successful writes invalidate cached
// stats; the cache wraps GET /api/stats only.
func RegisterAPI(e *echo.Echo, h API, m Guards) {
	g := e.Group(
		"/api",
		m.Auth,
		middleware.RequireRole(model.RoleCaseworker, model.RoleInspector, model.RoleAdmin),
		m.Invalidate,
	)

	// ---- Users ----
	g.GET("/users", h.Users.List)
	registerAdmin(g, h.Users)

	// ---- Cases ----
	g.GET("/cases", h.Cases.List)
	g.POST("/cases", h.Cases.Create)
	g.PUT("/cases/:id", h.Cases.Update)
	g.DELETE("/cases/:id", h.Cases.Delete)

	// ---- Clients ----
	g.GET("/clients", h.Clients.List)
	g.POST("/clients", h.Clients.Create)
	g.DELETE("/clients/:id", h.Clients.Delete)

	// ---- Stats ----
	g.GET("/stats", h.Stats.Get, m.StatsCache)
}
