package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/inspection-case-backend/internal/config"
    "github.com/iliyamo/inspection-case-backend/internal/middleware"
    "github.com/iliyamo/inspection-case-backend/internal/service"
    "github.com/iliyamo/inspection-case-backend/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg      config.Config
    Identity *service.Identity
    log      *logrus.Entry
}

func NewAuthHandler(cfg config.Config, identity *service.Identity, log *logrus.Entry) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Identity: identity, log: log.WithField("handler", "auth")}
}

// ----- DTOs -----

type registerReq struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Name  string `json:"name"`
    Role  string `json:"role"`
}
type loginResp struct {
    User   userPart  `json:"user"`
    Access tokenPart `json:"access"`
}

// Register: self-service sign-up; new accounts are CASEWORKER.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Email = strings.TrimSpace(req.Email)
    if req.Name == "" || req.Email == "" || req.Password == "" {
        return badRequest(c, "name, email and password are required")
    }
    if _, err := h.Identity.Create(c.Request().Context(), req.Name, req.Email, req.Password, ""); err != nil {
        return writeError(c, h.log, "register", err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "registration successful"})
}

// Login: verify credentials and issue an access token.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    req.Email = strings.TrimSpace(req.Email)
    if req.Email == "" || req.Password == "" {
        return badRequest(c, "email and password are required")
    }

    u, err := h.Identity.Authenticate(c.Request().Context(), req.Email, req.Password)
    if err != nil {
        return writeError(c, h.log, "login", err)
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return writeError(c, h.log, "login", err)
    }
    return c.JSON(http.StatusOK, loginResp{
        User:   userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
        Access: tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Me: the identity carried by the caller's token.
func (h *AuthHandler) Me(c echo.Context) error {
    id, ok := middleware.CurrentIdentity(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":    id.UserID,
        "email": id.Email,
        "role":  id.Role,
    })
}
