package handler_test

import (
    "bufio"
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/gorilla/websocket"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func readEvent(t *testing.T, r *bufio.Reader) map[string]any {
    t.Helper()
    for {
        line, err := r.ReadString('\n')
        require.NoError(t, err)
        line = strings.TrimSpace(line)
        if !strings.HasPrefix(line, "data: ") {
            continue
        }
        var m map[string]any
        require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &m))
        return m
    }
}

func TestSSE(t *testing.T) {
    s := newTestServer(t)
    srv := httptest.NewServer(s.e)
    defer srv.Close()

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/sse", nil)
    require.NoError(t, err)
    resp, err := http.DefaultClient.Do(req)
    require.NoError(t, err)
    defer resp.Body.Close()

    assert.Equal(t, http.StatusOK, resp.StatusCode)
    assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

    r := bufio.NewReader(resp.Body)
    first := readEvent(t, r)
    assert.Equal(t, "connected", first["type"])
    assert.EqualValues(t, 1, first["version"])

    _, err = s.svc.Versions().Bump(context.Background())
    require.NoError(t, err)

    next := readEvent(t, r)
    assert.Equal(t, "update", next["type"])
    assert.EqualValues(t, 2, next["version"])
}

func TestWebSocketPushesBoard(t *testing.T) {
    s := newTestServer(t)
    srv := httptest.NewServer(s.e)
    defer srv.Close()

    url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
    conn, _, err := websocket.DefaultDialer.Dial(url, nil)
    require.NoError(t, err)
    defer conn.Close()
    require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

    type message struct {
        Type    string `json:"type"`
        Version int64  `json:"version"`
        Board   struct {
            Day  string `json:"day"`
            Mode string `json:"mode"`
        } `json:"board"`
    }

    var m message
    require.NoError(t, conn.ReadJSON(&m))
    assert.Equal(t, "board", m.Type)
    assert.Equal(t, int64(1), m.Version)
    assert.Equal(t, "Thursday", m.Board.Day)
    assert.Equal(t, "NORMAL", m.Board.Mode)

    require.NoError(t, s.svc.Reset(context.Background(), "test"))
    require.NoError(t, conn.ReadJSON(&m))
    assert.Equal(t, int64(2), m.Version)
}
