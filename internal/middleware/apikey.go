package middleware

import (
    "crypto/subtle"
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireAPIKey guards maintenance endpoints with a shared key passed as the
// "key" query parameter or the X-API-Key header. An empty configured key
// disables the endpoints entirely.
func RequireAPIKey(key string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if key == "" {
                return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
            }
            got := c.QueryParam("key")
            if got == "" {
                got = c.Request().Header.Get("X-API-Key")
            }
            if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid api key"})
            }
            return next(c)
        }
    }
}
