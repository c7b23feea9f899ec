package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/okanele/peoplebook/internal/auth"
)

// principalKey is the echo context key under which requireSession stores the
// admitted session.
const principalKey = "principal"

// requireSession admits a request only if its cookie resolves to a live
// session. Everything behind it can assume principal(c) is populated.
func (h *handler) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		sess, ok := h.sessions.Get(cookie.Value)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		c.Set(principalKey, sess)
		return next(c)
	}
}

// principal returns the session attached by requireSession. Zero-valued for
// unguarded routes.
func principal(c echo.Context) auth.Session {
	sess, _ := c.Get(principalKey).(auth.Session)
	return sess
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelInfo,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
