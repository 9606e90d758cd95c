// Package middleware holds the Echo middleware shared by the route groups:
// admin authentication, rate limiting, the public response cache and
// request logging.
package middleware

import (
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
    CtxUser = "user"
    CtxRole = "role"
)

// JWTAuth validates a Bearer access token signed with secret and stores the
// subject and role claims in the context under CtxUser and CtxRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
    keyFunc := func(t *jwt.Token) (interface{}, error) { return []byte(secret), nil }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims := jwt.MapClaims{}
            tok, err := jwt.ParseWithClaims(raw, claims, keyFunc,
                jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
                jwt.WithExpirationRequired())
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            sub, _ := claims.GetSubject()
            role, _ := claims["role"].(string)
            if sub == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            c.Set(CtxUser, sub)
            c.Set(CtxRole, role)
            return next(c)
        }
    }
}
