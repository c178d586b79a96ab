package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/inspection-case-backend/internal/model"
    "github.com/iliyamo/inspection-case-backend/internal/service"
    "github.com/iliyamo/inspection-case-backend/internal/utils"
)

// UserLookup loads the current state of an account.  service.Identity
// satisfies it.
type UserLookup interface {
    Get(ctx context.Context, id uint64) (model.PublicUser, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// reloads the account it names and stores the verified identity in the
// request context.  The stored role replaces the role claim, so demotions
// and deletions take effect on the next request rather than at token
// expiry.  Handlers read the identity with CurrentIdentity; the legacy
// X-User-Email header is ignored.
func JWTAuth(secret string, users UserLookup) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            id, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            u, err := users.Get(c.Request().Context(), id.UserID)
            if errors.Is(err, service.ErrNotFound) || (err == nil && u.Email != id.Email) {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "account no longer exists"})
            }
            if err != nil {
                return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
            }
            id.Role = u.Role
            c.Set(identityKey, id)
            c.Set("role", id.Role)
            return next(c)
        }
    }
}
