// Package handler exposes the HTTP handlers for the public display
// endpoints, admin login, admin editing and live push.
package handler

import (
    "errors"
    "fmt"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/venue-price-board/internal/model"
    "github.com/iliyamo/venue-price-board/internal/repository"
    "github.com/iliyamo/venue-price-board/internal/service"
)

// respondError maps service and repository errors to status codes. Only
// unexpected failures are logged; their detail never reaches the client.
func respondError(c echo.Context, log *logrus.Logger, err error) error {
    switch {
    case errors.Is(err, model.ErrInvalid):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrPromotionNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion not found"})
    case errors.Is(err, repository.ErrLateNightNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "late night lanes not configured"})
    case errors.Is(err, repository.ErrPromotionExists):
        return c.JSON(http.StatusConflict, echo.Map{"error": "promotion id already exists"})
    case errors.Is(err, repository.ErrStoreUnavailable):
        log.WithError(err).WithField("path", c.Path()).Error("store unavailable")
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database unavailable"})
    }
    log.WithError(err).WithField("path", c.Path()).Error("request failed")
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// noStore marks a response as uncacheable by browsers and signage players.
func noStore(c echo.Context) {
    h := c.Response().Header()
    h.Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate, max-age=0")
    h.Set("Pragma", "no-cache")
    h.Set("Expires", "0")
}

// boardOptions reads the day, time and forceLateNight query parameters.
// Day and time are only honoured when allowOverrides is set.
func boardOptions(c echo.Context, allowOverrides bool) (service.BoardOptions, error) {
    var opts service.BoardOptions
    if v := c.QueryParam("forceLateNight"); v != "" {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return opts, fmt.Errorf("%w: forceLateNight must be a boolean", model.ErrInvalid)
        }
        opts.ForceLateNight = b
    }
    if allowOverrides {
        opts.Day = model.Weekday(c.QueryParam("day"))
        opts.HHMM = c.QueryParam("time")
        if err := service.ValidateOptions(opts); err != nil {
            return opts, err
        }
    }
    return opts, nil
}
