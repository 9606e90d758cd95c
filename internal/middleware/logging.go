package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request. Server errors are logged at
// error level, client errors at warn.
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }

            status := c.Response().Status
            entry := logger.WithFields(logrus.Fields{
                "method":   c.Request().Method,
                "path":     c.Request().URL.Path,
                "status":   status,
                "duration": time.Since(start),
                "remote":   c.RealIP(),
            })
            switch {
            case status >= 500:
                entry.WithError(err).Error("HTTP Request")
            case status >= 400:
                entry.Warn("HTTP Request")
            default:
                entry.Info("HTTP Request")
            }
            return nil
        }
    }
}
