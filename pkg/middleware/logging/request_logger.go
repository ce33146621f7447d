package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_cart/pkg/logging"
)

// RequestLogger puts a request-scoped logger into the request context and
// writes one http_request line per request. The cart owner, when a later
// middleware resolved one, is part of that line.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}

			l := base.With("method", req.Method, "route", c.Path())
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			attrs := []any{
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", res.Size,
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
			}
			if owner := logging.OwnerFrom(c.Request().Context()); owner != "" {
				attrs = append(attrs, "owner", owner)
			}
			if lang := req.Header.Get("Accept-Language"); lang != "" {
				attrs = append(attrs, "accept_language", lang)
			}

			switch {
			case err != nil:
				l.Error("http_request", append(attrs, "error", err.Error())...)
			case res.Status >= 500:
				l.Error("http_request", attrs...)
			case res.Status >= 400:
				l.Warn("http_request", attrs...)
			default:
				l.Info("http_request", attrs...)
			}
			return nil
		}
	}
}
