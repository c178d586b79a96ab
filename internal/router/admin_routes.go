package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inspection-case-backend/internal/handler"
	"github.com/iliyamo/inspection-case-backend/internal/middleware"
	"github.com/iliyamo/inspection-case-backend/internal/model"
)

// registerAdmin attaches ADMIN-only user management to the authenticated
// /api group.  The role check is per route so that GET /api/users stays
// open to every role.
func registerAdmin(g *echo.Group, u *handler.UserHandler) {
	admin := middleware.RequireRole(model.RoleAdmin)

	g.POST("/users", u.Create, admin)
	g.DELETE("/users/:id", u.Delete, admin)
	g.PUT("/users/:id/role", u.ChangeRole, admin)
}
