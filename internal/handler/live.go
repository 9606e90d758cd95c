package handler

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "time"

    "github.com/gorilla/websocket"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/venue-price-board/internal/service"
)

// LiveHandler pushes board changes to connected displays.
type LiveHandler struct {
    Svc *service.BoardService
    Log *logrus.Logger
    // PingEvery keeps idle SSE connections open through proxies.
    PingEvery time.Duration
    // RefreshEvery re-sends the board over websocket so slot boundaries
    // show without a version change.
    RefreshEvery time.Duration
    Upgrader     websocket.Upgrader
}

// NewLiveHandler returns a handler with 30s pings and minute refreshes.
// Origins are not checked: signage players load the board from file:// or
// vendor origins.
func NewLiveHandler(svc *service.BoardService, log *logrus.Logger) *LiveHandler {
    return &LiveHandler{
        Svc:          svc,
        Log:          log,
        PingEvery:    30 * time.Second,
        RefreshEvery: time.Minute,
        Upgrader: websocket.Upgrader{
            CheckOrigin: func(*http.Request) bool { return true },
        },
    }
}

type sseMessage struct {
    Type      string `json:"type"`
    Version   int64  `json:"version,omitempty"`
    Timestamp int64  `json:"timestamp"`
}

// SSE streams {"type":"connected"}, then {"type":"update"} whenever the
// version moves, and {"type":"ping"} every PingEvery. Clients refetch the
// board on update.
func (h *LiveHandler) SSE(c echo.Context) error {
    ctx := c.Request().Context()
    w := c.Response()
    w.Header().Set(echo.HeaderContentType, "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache, no-transform")
    w.Header().Set("Connection", "keep-alive")
    w.Header().Set("X-Accel-Buffering", "no")
    w.WriteHeader(http.StatusOK)

    updates := h.Svc.Versions().Subscribe(ctx)
    last := h.Svc.Version(ctx)

    send := func(m sseMessage) error {
        m.Timestamp = h.Svc.Now().UnixMilli()
        b, err := json.Marshal(m)
        if err != nil {
            return err
        }
        if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
            return err
        }
        w.Flush()
        return nil
    }
    if err := send(sseMessage{Type: "connected", Version: last}); err != nil {
        return nil
    }

    ping := time.NewTicker(h.PingEvery)
    defer ping.Stop()
    for {
        select {
        case <-ctx.Done():
            return nil
        case v, ok := <-updates:
            if !ok {
                return nil
            }
            if v <= last {
                continue
            }
            last = v
            if err := send(sseMessage{Type: "update", Version: v}); err != nil {
                return nil
            }
        case <-ping.C:
            if err := send(sseMessage{Type: "ping"}); err != nil {
                return nil
            }
        }
    }
}

type wsMessage struct {
    Type string `json:"type"`
    service.BoardView
}

// WS upgrades to a websocket and pushes the resolved board on connect, on
// every version change and every RefreshEvery. Incoming messages are read
// only to notice the client going away.
func (h *LiveHandler) WS(c echo.Context) error {
    conn, err := h.Upgrader.Upgrade(c.Response(), c.Request(), nil)
    if err != nil {
        h.Log.WithError(err).Warn("websocket upgrade failed")
        return nil
    }
    defer conn.Close()

    remote := c.RealIP()
    h.Log.WithField("remote", remote).Info("WebSocket connected")

    ctx, cancel := context.WithCancel(c.Request().Context())
    defer cancel()
    go func() {
        defer cancel()
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()

    updates := h.Svc.Versions().Subscribe(ctx)
    refresh := time.NewTicker(h.RefreshEvery)
    defer refresh.Stop()

    push := func() error {
        view, err := h.Svc.Board(ctx, service.BoardOptions{})
        if err != nil {
            h.Log.WithError(err).Warn("websocket: resolve board")
            return nil
        }
        _ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
        return conn.WriteJSON(wsMessage{Type: "board", BoardView: view})
    }

    if err := push(); err != nil {
        return nil
    }
    for {
        select {
        case <-ctx.Done():
            h.Log.WithField("remote", remote).Info("WebSocket disconnected")
            return nil
        case _, ok := <-updates:
            if !ok {
                return nil
            }
            if err := push(); err != nil {
                return nil
            }
        case <-refresh.C:
            if err := push(); err != nil {
                return nil
            }
        }
    }
}
