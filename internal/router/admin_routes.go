package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-price-board/internal/handler"
	"github.com/iliyamo/venue-price-board/internal/middleware"
)

// RegisterAdmin registers the editing endpoints. Every route requires an
// admin token.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group(
		"/api",
		limit,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	g.POST("/prices", h.SavePrices)

	g.POST("/promotions", h.CreatePromotion)
	g.PUT("/promotions", h.ReplacePromotions)
	g.PUT("/promotions/:id", h.UpdatePromotion)
	g.DELETE("/promotions/:id", h.DeletePromotion)

	g.PUT("/late-night", h.UpdateLateNight)

	g.GET("/admin/preview", h.Preview)
	g.POST("/admin/preview", h.PreviewDraft)

	g.POST("/export", h.ExportHTML)
	g.GET("/export/rate-sheet.pdf", h.RateSheet)
}

// RegisterMaintenance registers the API key guarded reset endpoint.
func RegisterMaintenance(e *echo.Echo, h *handler.AdminHandler, apiKey string, limit echo.MiddlewareFunc) {
	e.POST("/api/db-reset", h.Reset, limit, middleware.RequireAPIKey(apiKey))
}
