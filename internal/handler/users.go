package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inspection-case-backend/internal/middleware"
	"github.com/iliyamo/inspection-case-backend/internal/service"
)

// UserHandler serves user administration.
type UserHandler struct {
	Identity *service.Identity
	log      *logrus.Entry
}

func NewUserHandler(identity *service.Identity, log *logrus.Entry) *UserHandler {
	return &UserHandler{Identity: identity, log: log.WithField("handler", "users")}
}

type createUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type roleReq struct {
	Role string `json:"role"`
}

// List handles GET /api/users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Identity.List(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, "list users", err)
	}
	return c.JSON(http.StatusOK, users)
}

// Create handles POST /api/users; role defaults to CASEWORKER.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return badRequest(c, "name, email and password are required")
	}
	u, err := h.Identity.Create(c.Request().Context(), req.Name, req.Email, req.Password, strings.TrimSpace(req.Role))
	if err != nil {
		return writeError(c, h.log, "create user", err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Delete handles DELETE /api/users/:id; unknown ids succeed.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Identity.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, h.log, "delete user", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// ChangeRole handles PUT /api/users/:id/role.  The acting user is the one
// in the verified access token.
func (h *UserHandler) ChangeRole(c echo.Context) error {
	acting, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req roleReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	u, err := h.Identity.ChangeRole(c.Request().Context(), acting.Email, id, req.Role)
	if err != nil {
		return writeError(c, h.log, "change role", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("role changed to %s", u.Role),
		"user":    userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
	})
}
