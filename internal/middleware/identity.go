package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/inspection-case-backend/internal/utils"
)

const identityKey = "identity"

// CurrentIdentity returns the caller verified by JWTAuth.  ok is false on
// routes that are not behind JWTAuth.
func CurrentIdentity(c echo.Context) (utils.Identity, bool) {
    id, ok := c.Get(identityKey).(utils.Identity)
    return id, ok
}

// userID returns the authenticated user id as a string, or "guest".
func userID(c echo.Context) string {
    if id, ok := CurrentIdentity(c); ok {
        return strconv.FormatUint(id.UserID, 10)
    }
    return "guest"
}
