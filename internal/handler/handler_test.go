package handler_test

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus/hooks/test"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/venue-price-board/internal/board"
    "github.com/iliyamo/venue-price-board/internal/handler"
    "github.com/iliyamo/venue-price-board/internal/model"
    "github.com/iliyamo/venue-price-board/internal/repository"
    "github.com/iliyamo/venue-price-board/internal/router"
    "github.com/iliyamo/venue-price-board/internal/service"
    "github.com/iliyamo/venue-price-board/internal/utils"
    "github.com/iliyamo/venue-price-board/internal/version"
)

const (
    jwtSecret = "handler-test-secret"
    apiKey    = "reset-key"
    adminUser = "manager"
    adminPass = "letmein"
)

// Thursday 17 April 2025, 17:30.
var now = time.Date(2025, time.April, 17, 17, 30, 0, 0, time.UTC)

type testServer struct {
    e   *echo.Echo
    svc *service.BoardService
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func newTestServer(t *testing.T) *testServer {
    t.Helper()
    logger, _ := test.NewNullLogger()
    svc := service.NewBoardService(repository.NewMemoryStore(), version.NewMemory(), nil, board.FixedClock{T: now}, logger)

    hash, err := utils.HashPassword(adminPass, bcrypt.MinCost)
    require.NoError(t, err)

    e := echo.New()
    authH := &handler.AuthHandler{
        Creds:     utils.Credentials{Username: adminUser, PasswordHash: hash},
        JWTSecret: jwtSecret,
        TTLMin:    5,
        Now:       time.Now,
        Log:       logger,
    }
    adminH := handler.NewAdminHandler(svc, logger)
    liveH := handler.NewLiveHandler(svc, logger)
    liveH.PingEvery = time.Hour

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, jwtSecret, passthrough)
    router.RegisterPublic(e, handler.NewBoardHandler(svc, logger), liveH, passthrough, passthrough)
    router.RegisterAdmin(e, adminH, jwtSecret, passthrough)
    router.RegisterMaintenance(e, adminH, apiKey, passthrough)
    return &testServer{e: e, svc: svc}
}

func (s *testServer) do(method, path, body, token string, hdr ...string) *httptest.ResponseRecorder {
    var req *http.Request
    if body != "" {
        req = httptest.NewRequest(method, path, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    } else {
        req = httptest.NewRequest(method, path, nil)
    }
    if token != "" {
        req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
    }
    for i := 0; i+1 < len(hdr); i += 2 {
        req.Header.Set(hdr[i], hdr[i+1])
    }
    rec := httptest.NewRecorder()
    s.e.ServeHTTP(rec, req)
    return rec
}

func (s *testServer) login(t *testing.T) string {
    t.Helper()
    rec := s.do(http.MethodPost, "/api/auth/login", `{"username":"manager","password":"letmein"}`, "")
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    var out struct {
        AccessToken string `json:"access_token"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    require.NotEmpty(t, out.AccessToken)
    return out.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
    t.Helper()
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
    rec := newTestServer(t).do(http.MethodGet, "/healthz", "", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "ok", rec.Body.String())
}

func TestGetPricesAndData(t *testing.T) {
    s := newTestServer(t)

    rec := s.do(http.MethodGet, "/api/prices", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    var prices struct {
        Prices []model.DayPrices `json:"prices"`
    }
    decode(t, rec, &prices)
    assert.Len(t, prices.Prices, 7)

    for _, path := range []string{"/api/data", "/api/board-data"} {
        rec = s.do(http.MethodGet, path, "", "")
        require.Equal(t, http.StatusOK, rec.Code)
        var data map[string]json.RawMessage
        decode(t, rec, &data)
        assert.Contains(t, data, "prices")
        assert.Contains(t, data, "promotions")
        assert.Contains(t, data, "timestamp")
        assert.JSONEq(t, "1", string(data["version"]))
        assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
    }
}

func TestPublicBoardDataAndETag(t *testing.T) {
    s := newTestServer(t)

    rec := s.do(http.MethodGet, "/api/public-board-data", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    etag := rec.Header().Get("ETag")
    require.NotEmpty(t, etag)

    var out struct {
        CurrentDay        string           `json:"currentDay"`
        TodayPrices       *model.DayPrices `json:"todayPrices"`
        IsLateNightActive bool             `json:"isLateNightActive"`
        Timestamp         int64            `json:"timestamp"`
        Board             struct {
            Mode string `json:"mode"`
        } `json:"board"`
    }
    decode(t, rec, &out)
    assert.Equal(t, "Thursday", out.CurrentDay)
    require.NotNil(t, out.TodayPrices)
    assert.Equal(t, model.Thursday, out.TodayPrices.Day)
    assert.False(t, out.IsLateNightActive)
    assert.Equal(t, now.UnixMilli(), out.Timestamp)
    assert.Equal(t, "NORMAL", out.Board.Mode)

    rec = s.do(http.MethodGet, "/api/public-board-data", "", "", "If-None-Match", etag)
    assert.Equal(t, http.StatusNotModified, rec.Code)

    require.NoError(t, s.svc.Reset(context.Background(), "test"))
    rec = s.do(http.MethodGet, "/api/public-board-data", "", "", "If-None-Match", etag)
    assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBoard(t *testing.T) {
    s := newTestServer(t)

    rec := s.do(http.MethodGet, "/api/board", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    var view service.BoardView
    decode(t, rec, &view)
    assert.Equal(t, int64(1), view.Version)
    require.NotNil(t, view.Board.PerActivity.Bowling.Price)
    assert.Equal(t, 42.0, *view.Board.PerActivity.Bowling.Price)
    assert.Equal(t, "4:00 PM - CLOSE", view.Board.PerActivity.Bowling.TimeRange)

    rec = s.do(http.MethodGet, "/api/board?forceLateNight=true", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    decode(t, rec, &view)
    assert.Equal(t, board.ModeLateNight, view.Board.Mode)

    rec = s.do(http.MethodGet, "/api/board?forceLateNight=maybe", "", "")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPromotionsAndLateNightReads(t *testing.T) {
    s := newTestServer(t)

    rec := s.do(http.MethodGet, "/api/promotions", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "promo_1")

    rec = s.do(http.MethodGet, "/api/late-night", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"startTime":"20:00"`)
}

func TestStandaloneBoard(t *testing.T) {
    rec := newTestServer(t).do(http.MethodGet, "/api/standalone-board", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
    assert.Contains(t, rec.Body.String(), "THURSDAY PRICING")
}

func TestDBStatus(t *testing.T) {
    rec := newTestServer(t).do(http.MethodGet, "/api/db-status", "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    var rep service.StatusReport
    decode(t, rec, &rep)
    assert.Equal(t, repository.BackendMemory, rep.Store.Backend)
    assert.Equal(t, 7, rep.Store.Tables["day_prices"])
}

func TestLogin(t *testing.T) {
    s := newTestServer(t)
    token := s.login(t)

    rec := s.do(http.MethodGet, "/api/auth/me", "", token)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"username":"manager","role":"ADMIN"}`, rec.Body.String())

    rec = s.do(http.MethodPost, "/api/auth/login", `{"username":"manager","password":"wrong"}`, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    rec = s.do(http.MethodPost, "/api/auth/login", `{"username":""}`, "")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
    s := newTestServer(t)
    for _, r := range []struct{ method, path string }{
        {http.MethodPost, "/api/prices"},
        {http.MethodPost, "/api/promotions"},
        {http.MethodPut, "/api/promotions"},
        {http.MethodDelete, "/api/promotions/promo_1"},
        {http.MethodPut, "/api/late-night"},
        {http.MethodGet, "/api/admin/preview"},
        {http.MethodGet, "/api/export/rate-sheet.pdf"},
    } {
        rec := s.do(r.method, r.path, "", "")
        assert.Equal(t, http.StatusUnauthorized, rec.Code, r.path)
    }
}

func TestSavePrices(t *testing.T) {
    s := newTestServer(t)
    token := s.login(t)

    rec := s.do(http.MethodPost, "/api/prices", `{"nope":1}`, token)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = s.do(http.MethodPost, "/api/prices", `{"prices":[{"day":"Funday"}]}`, token)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    days := model.DefaultSchedule()
    days[3].Bowling.TimeSlots[2].Price = 50
    body, _ := json.Marshal(map[string]any{"prices": days})
    rec = s.do(http.MethodPost, "/api/prices", string(body), token)
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.JSONEq(t, `{"success":true,"version":2,"warnings":[]}`, rec.Body.String())

    rec = s.do(http.MethodGet, "/api/board", "", "")
    var view service.BoardView
    decode(t, rec, &view)
    assert.Equal(t, 50.0, *view.Board.PerActivity.Bowling.Price)
}

func TestPromotionCRUD(t *testing.T) {
    s := newTestServer(t)
    token := s.login(t)

    rec := s.do(http.MethodPost, "/api/promotions", `{"title":"Darts night","description":"Half price","startDate":"2025-04-01","endDate":"2025-04-30","applicableDays":["Thursday"],"applicableActivities":["darts"],"isActive":true}`, token)
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    var created struct {
        Promotion model.Promotion `json:"promotion"`
    }
    decode(t, rec, &created)
    id := created.Promotion.ID
    require.NotEmpty(t, id)

    rec = s.do(http.MethodGet, "/api/board", "", "")
    var view service.BoardView
    decode(t, rec, &view)
    require.Len(t, view.Board.PerActivity.Darts.Promotions, 1)

    rec = s.do(http.MethodPut, "/api/promotions/"+id, `{"id":"other","title":"x","startDate":"a","endDate":"b"}`, token)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = s.do(http.MethodPut, "/api/promotions/"+id, `{"title":"Darts night","startDate":"2025-04-01","endDate":"2025-04-30","isActive":false}`, token)
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

    rec = s.do(http.MethodPost, "/api/promotions", `{"id":"promo_1","title":"dup","startDate":"a","endDate":"b"}`, token)
    assert.Equal(t, http.StatusConflict, rec.Code)

    rec = s.do(http.MethodDelete, "/api/promotions/"+id, "", token)
    assert.Equal(t, http.StatusOK, rec.Code)
    rec = s.do(http.MethodDelete, "/api/promotions/"+id, "", token)
    assert.Equal(t, http.StatusNotFound, rec.Code)

    rec = s.do(http.MethodPut, "/api/promotions", `{"promotions":[]}`, token)
    require.Equal(t, http.StatusOK, rec.Code)
    rec = s.do(http.MethodGet, "/api/promotions", "", "")
    assert.JSONEq(t, `{"promotions":[]}`, rec.Body.String())
}

func TestUpdateLateNight(t *testing.T) {
    s := newTestServer(t)
    token := s.login(t)

    rec := s.do(http.MethodPut, "/api/late-night", `{"isActive":true,"applicableDays":["Thursday"],"startTime":"17:00","endTime":"CLOSE","price":9.99}`, token)
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

    rec = s.do(http.MethodGet, "/api/board", "", "")
    var view service.BoardView
    decode(t, rec, &view)
    assert.True(t, view.Board.LateNightActive)

    rec = s.do(http.MethodPut, "/api/late-night", `{"startTime":"CLOSE","endTime":"22:00"}`, token)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreview(t *testing.T) {
    s := newTestServer(t)
    token := s.login(t)

    rec := s.do(http.MethodGet, "/api/admin/preview?day=Saturday&time=21:00", "", token)
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    var view service.BoardView
    decode(t, rec, &view)
    assert.Equal(t, model.Saturday, view.Board.Day)
    assert.True(t, view.Board.LateNightActive)

    rec = s.do(http.MethodGet, "/api/admin/preview?time=9pm", "", token)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    draft := model.DefaultLateNightLanes()
    draft.ApplicableDays = []model.Weekday{model.Thursday}
    draft.StartTime = "17:00"
    body, _ := json.Marshal(service.Draft{LateNight: &draft})
    rec = s.do(http.MethodPost, "/api/admin/preview", string(body), token)
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    decode(t, rec, &view)
    assert.True(t, view.Board.LateNightActive)
    assert.Equal(t, int64(1), s.svc.Version(context.Background()))
}

func TestExports(t *testing.T) {
    s := newTestServer(t)
    token := s.login(t)

    body, _ := json.Marshal(map[string]any{"prices": model.DefaultSchedule()})
    rec := s.do(http.MethodPost, "/api/export", string(body), token)
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "price-board.html")
    assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")

    rec = s.do(http.MethodGet, "/api/export/rate-sheet.pdf", "", token)
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
    assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
    assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "rate-sheet-2025-04-17.pdf")
}

func TestDBReset(t *testing.T) {
    s := newTestServer(t)
    token := s.login(t)
    rec := s.do(http.MethodPut, "/api/promotions", `{"promotions":[]}`, token)
    require.Equal(t, http.StatusOK, rec.Code)

    rec = s.do(http.MethodPost, "/api/db-reset?key=wrong", "", "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    rec = s.do(http.MethodPost, "/api/db-reset?key="+apiKey, "", "")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"message":"Database reset successfully"}`, rec.Body.String())

    rec = s.do(http.MethodGet, "/api/promotions", "", "")
    assert.Contains(t, rec.Body.String(), "promo_1")
}
