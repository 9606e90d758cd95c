// Package router registers the HTTP routes, grouped by audience: public
// display endpoints, admin login, admin editing and maintenance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-price-board/internal/handler"
	"github.com/iliyamo/venue-price-board/internal/middleware"
)

// RegisterRoutes registers routes that need neither auth nor limits.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers admin login under /api/auth. Login is rate limited
// by limit; /me requires a valid admin token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login, limit)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret), middleware.RequireRole(middleware.RoleAdmin))
}
