package handler

import (
    "bytes"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/venue-price-board/internal/board"
    "github.com/iliyamo/venue-price-board/internal/export"
    "github.com/iliyamo/venue-price-board/internal/model"
    "github.com/iliyamo/venue-price-board/internal/service"
)

// BoardHandler serves the read-only display endpoints.
type BoardHandler struct {
    Svc *service.BoardService
    Log *logrus.Logger
    // StandaloneRefresh is the meta refresh interval of the standalone
    // board page.
    StandaloneRefresh time.Duration
}

// NewBoardHandler constructs a BoardHandler and panics on a nil service.
func NewBoardHandler(svc *service.BoardService, log *logrus.Logger) *BoardHandler {
    if svc == nil {
        panic("nil service passed to NewBoardHandler")
    }
    return &BoardHandler{Svc: svc, Log: log, StandaloneRefresh: time.Minute}
}

// GetPrices returns the stored week: {"prices": [...]}.
func (h *BoardHandler) GetPrices(c echo.Context) error {
    snap, err := h.Svc.Snapshot(c.Request().Context())
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"prices": snap.Schedule})
}

// GetData returns prices and promotions for pollers of /api/data and
// /api/board-data.
func (h *BoardHandler) GetData(c echo.Context) error {
    snap, err := h.Svc.Snapshot(c.Request().Context())
    if err != nil {
        return respondError(c, h.Log, err)
    }
    noStore(c)
    return c.JSON(http.StatusOK, echo.Map{
        "prices":     snap.Schedule,
        "promotions": snap.Promotions,
        "timestamp":  snap.Now.UTC().Format(time.RFC3339Nano),
        "version":    snap.Version,
    })
}

type publicBoardData struct {
    Prices            []model.DayPrices    `json:"prices"`
    Promotions        []model.Promotion    `json:"promotions"`
    LateNightLanes    model.LateNightLanes `json:"lateNightLanes"`
    CurrentDay        model.Weekday        `json:"currentDay"`
    TodayPrices       *model.DayPrices     `json:"todayPrices"`
    IsLateNightActive bool                 `json:"isLateNightActive"`
    Timestamp         int64                `json:"timestamp"`
    Version           int64                `json:"version"`
    Board             board.ResolvedBoard  `json:"board"`
}

// GetPublicBoardData serves the display pages: the raw entities, today's
// record and the resolved board. The ETag changes with the version and the
// minute, and a matching If-None-Match gets 304.
func (h *BoardHandler) GetPublicBoardData(c echo.Context) error {
    snap, err := h.Svc.Snapshot(c.Request().Context())
    if err != nil {
        return respondError(c, h.Log, err)
    }
    b := service.Resolve(snap, service.BoardOptions{})

    etag := fmt.Sprintf(`"%d-%s-%s"`, snap.Version, b.Day, b.HHMM)
    noStore(c)
    c.Response().Header().Set("ETag", etag)
    if c.Request().Header.Get("If-None-Match") == etag {
        return c.NoContent(http.StatusNotModified)
    }

    out := publicBoardData{
        Prices:            snap.Schedule,
        Promotions:        snap.Promotions,
        LateNightLanes:    snap.LateNight,
        CurrentDay:        b.Day,
        IsLateNightActive: b.LateNightActive,
        Timestamp:         snap.Now.UnixMilli(),
        Version:           snap.Version,
        Board:             b,
    }
    for i := range snap.Schedule {
        if snap.Schedule[i].Day == b.PricesDay {
            out.TodayPrices = &snap.Schedule[i]
            break
        }
    }
    return c.JSON(http.StatusOK, out)
}

// GetBoard returns {version, board}. forceLateNight=true previews the late
// night layout.
func (h *BoardHandler) GetBoard(c echo.Context) error {
    opts, err := boardOptions(c, false)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    view, err := h.Svc.Board(c.Request().Context(), opts)
    if err != nil {
        return respondError(c, h.Log, err)
    }
    noStore(c)
    return c.JSON(http.StatusOK, view)
}

func (h *BoardHandler) GetPromotions(c echo.Context) error {
    snap, err := h.Svc.Snapshot(c.Request().Context())
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"promotions": snap.Promotions})
}

func (h *BoardHandler) GetLateNight(c echo.Context) error {
    snap, err := h.Svc.Snapshot(c.Request().Context())
    if err != nil {
        return respondError(c, h.Log, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"lateNightLanes": snap.LateNight})
}

// StandaloneBoard renders the current board as a full HTML page for
// players that cannot run the display app.
func (h *BoardHandler) StandaloneBoard(c echo.Context) error {
    view, err := h.Svc.Board(c.Request().Context(), service.BoardOptions{})
    if err != nil {
        return respondError(c, h.Log, err)
    }
    var buf bytes.Buffer
    if err := export.RenderHTML(&buf, view.Board, export.HTMLOptions{
        Version:        view.Version,
        GeneratedAt:    h.Svc.Now(),
        RefreshSeconds: int(h.StandaloneRefresh / time.Second),
    }); err != nil {
        return respondError(c, h.Log, err)
    }
    noStore(c)
    return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// DBStatus reports store connectivity and data quality. It answers 503
// when the store is down so that monitors can alert on the status code.
func (h *BoardHandler) DBStatus(c echo.Context) error {
    rep := h.Svc.Status(c.Request().Context())
    code := http.StatusOK
    if !rep.Store.Connected {
        code = http.StatusServiceUnavailable
    }
    noStore(c)
    return c.JSON(code, rep)
}
