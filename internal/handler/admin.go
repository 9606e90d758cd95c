package handler

import (
    "bytes"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/venue-price-board/internal/export"
    "github.com/iliyamo/venue-price-board/internal/middleware"
    "github.com/iliyamo/venue-price-board/internal/model"
    "github.com/iliyamo/venue-price-board/internal/service"
)

// AdminHandler serves the editing endpoints behind JWT auth.
type AdminHandler struct {
    Svc *service.BoardService
    Log *logrus.Logger
}

// NewAdminHandler constructs an AdminHandler and panics on a nil service.
func NewAdminHandler(svc *service.BoardService, log *logrus.Logger) *AdminHandler {
    if svc == nil {
        panic("nil service passed to NewAdminHandler")
    }
    return &AdminHandler{Svc: svc, Log: log}
}

type pricesRequest struct {
    Prices []model.DayPrices `json:"prices"`
}

type promotionsRequest struct {
    Promotions []model.Promotion `json:"promotions"`
}

// SavePrices replaces the whole week. Layout warnings are returned but do
// not fail the save.
func (h *AdminHandler) SavePrices(c echo.Context) error {
    var req pricesRequest
    if err := c.Bind(&req); err != nil || req.Prices == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid data format"})
    }
    v, issues, err := h.Svc.ReplaceSchedule(c.Request().Context(), middleware.Actor(c), req.Prices)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    warnings := make([]string, 0, len(issues))
    for _, is := range issues {
        warnings = append(warnings, is.String())
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "version": v, "warnings": warnings})
}

// CreatePromotion adds one promotion. The id is generated when omitted.
func (h *AdminHandler) CreatePromotion(c echo.Context) error {
    var p model.Promotion
    if err := c.Bind(&p); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
    }
    ctx := c.Request().Context()
    out, err := h.Svc.AddPromotion(ctx, middleware.Actor(c), p)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"promotion": out, "version": h.Svc.Version(ctx)})
}

// ReplacePromotions swaps the full promotions list.
func (h *AdminHandler) ReplacePromotions(c echo.Context) error {
    var req promotionsRequest
    if err := c.Bind(&req); err != nil || req.Promotions == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid data format"})
    }
    ctx := c.Request().Context()
    if err := h.Svc.ReplacePromotions(ctx, middleware.Actor(c), req.Promotions); err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "version": h.Svc.Version(ctx)})
}

// UpdatePromotion overwrites the promotion named in the path. A body id
// that disagrees with the path is rejected.
func (h *AdminHandler) UpdatePromotion(c echo.Context) error {
    id := c.Param("id")
    var p model.Promotion
    if err := c.Bind(&p); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
    }
    if p.ID != "" && p.ID != id {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "id in body does not match path"})
    }
    p.ID = id
    ctx := c.Request().Context()
    if err := h.Svc.UpdatePromotion(ctx, middleware.Actor(c), p); err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"promotion": p, "version": h.Svc.Version(ctx)})
}

func (h *AdminHandler) DeletePromotion(c echo.Context) error {
    ctx := c.Request().Context()
    if err := h.Svc.DeletePromotion(ctx, middleware.Actor(c), c.Param("id")); err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "version": h.Svc.Version(ctx)})
}

// UpdateLateNight stores the late night settings.
func (h *AdminHandler) UpdateLateNight(c echo.Context) error {
    var l model.LateNightLanes
    if err := c.Bind(&l); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
    }
    ctx := c.Request().Context()
    out, err := h.Svc.UpdateLateNight(ctx, middleware.Actor(c), l)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"lateNightLanes": out, "version": h.Svc.Version(ctx)})
}

// Preview resolves the stored data at ?day=&time=, so an admin can check
// what any day and time will look like.
func (h *AdminHandler) Preview(c echo.Context) error {
    opts, err := boardOptions(c, true)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    view, err := h.Svc.Board(c.Request().Context(), opts)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, view)
}

// PreviewDraft resolves unsaved edits from the body. Nothing is stored.
func (h *AdminHandler) PreviewDraft(c echo.Context) error {
    opts, err := boardOptions(c, true)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    var d service.Draft
    if err := c.Bind(&d); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
    }
    view, err := h.Svc.PreviewDraft(c.Request().Context(), d, opts)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, view)
}

// ExportHTML renders a standalone board for the posted prices, for loading
// onto players by hand.
func (h *AdminHandler) ExportHTML(c echo.Context) error {
    var req pricesRequest
    if err := c.Bind(&req); err != nil || req.Prices == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid data format"})
    }
    view, err := h.Svc.PreviewDraft(c.Request().Context(), service.Draft{Prices: req.Prices}, service.BoardOptions{})
    if err != nil {
        return respondError(c, h.Log, err)
    }
    var buf bytes.Buffer
    if err := export.RenderHTML(&buf, view.Board, export.HTMLOptions{
        Version:        view.Version,
        GeneratedAt:    h.Svc.Now(),
        RefreshSeconds: 300,
    }); err != nil {
        return respondError(c, h.Log, err)
    }
    c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="price-board.html"`)
    return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// RateSheet returns the printable weekly PDF.
func (h *AdminHandler) RateSheet(c echo.Context) error {
    snap, err := h.Svc.Snapshot(c.Request().Context())
    if err != nil {
        return respondError(c, h.Log, err)
    }
    var buf bytes.Buffer
    if err := export.RenderRateSheet(&buf, export.RateSheet{
        Schedule:    snap.Schedule,
        Promotions:  snap.Promotions,
        LateNight:   snap.LateNight,
        Version:     snap.Version,
        GeneratedAt: snap.Now,
    }); err != nil {
        return respondError(c, h.Log, err)
    }
    name := fmt.Sprintf("rate-sheet-%s.pdf", snap.Now.Format(time.DateOnly))
    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
    return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// Reset restores the seed data. It sits behind the maintenance API key.
func (h *AdminHandler) Reset(c echo.Context) error {
    if err := h.Svc.Reset(c.Request().Context(), "api-key"); err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Database reset successfully"})
}
