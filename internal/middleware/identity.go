package middleware

import "github.com/labstack/echo/v4"

// Actor returns the authenticated username, or "anonymous" outside the
// admin group. It names the actor in change events and rate limit keys.
func Actor(c echo.Context) string {
    if s, ok := c.Get(CtxUser).(string); ok && s != "" {
        return s
    }
    return "anonymous"
}
