package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/venue-price-board/internal/middleware"
    "github.com/iliyamo/venue-price-board/internal/utils"
)

// AuthHandler issues admin access tokens. There is one admin account,
// configured through the environment.
type AuthHandler struct {
    Creds     utils.Credentials
    JWTSecret string
    TTLMin    int
    Now       func() time.Time
    Log       *logrus.Logger
}

type loginRequest struct {
    Username string `json:"username"`
    Password string `json:"password"`
}

// Login checks the credentials and returns a bearer token with role ADMIN.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
    }
    if !h.Creds.Check(req.Username, req.Password) {
        h.Log.WithFields(logrus.Fields{"username": req.Username, "remote": c.RealIP()}).Warn("admin login failed")
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    tok, err := utils.NewAccessToken(h.JWTSecret, req.Username, middleware.RoleAdmin, h.TTLMin, h.Now())
    if err != nil {
        h.Log.WithError(err).Error("sign access token")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
    }
    h.Log.WithField("username", req.Username).Info("admin logged in")
    return c.JSON(http.StatusOK, echo.Map{
        "access_token": tok.Token,
        "token_type":   "Bearer",
        "expires_at":   tok.Exp,
    })
}

// Me echoes the identity carried by the token.
func (h *AuthHandler) Me(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "username": middleware.Actor(c),
        "role":     c.Get(middleware.CtxRole),
    })
}
