package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-price-board/internal/handler"
)

// RegisterPublic registers the display endpoints. JSON reads go through
// cache; the streaming endpoints bypass it. limit applies to all of them.
func RegisterPublic(e *echo.Echo, b *handler.BoardHandler, l *handler.LiveHandler, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/api", limit)

	g.GET("/prices", b.GetPrices, cache)
	g.GET("/data", b.GetData, cache)
	g.GET("/board-data", b.GetData, cache)
	g.GET("/board", b.GetBoard, cache)
	g.GET("/promotions", b.GetPromotions, cache)
	g.GET("/late-night", b.GetLateNight, cache)
	// public-board-data answers conditional requests itself.
	g.GET("/public-board-data", b.GetPublicBoardData)
	g.GET("/standalone-board", b.StandaloneBoard, cache)
	g.GET("/db-status", b.DBStatus)

	g.GET("/sse", l.SSE)
	g.GET("/ws", l.WS)
}
