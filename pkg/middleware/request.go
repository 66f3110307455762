package middleware

import (
	"time"

	"github.com/fekuna/omnipos-erp-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// RequestContext tags each request with an id (the caller's X-Request-ID when present)
// and stores a logger carrying that id in the request context.
func RequestContext(base logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(HeaderRequestID, requestID)

			log := base.With(zap.String("request_id", requestID))
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), log)))

			return next(c)
		}
	}
}

// AccessLog writes one line per request after the error handler has set the status.
func AccessLog(base logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", res.Status),
				zap.Int64("bytes_out", res.Size),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}

			log := logger.FromContext(c.Request().Context(), base)
			switch {
			case res.Status >= 500:
				log.Error("request completed", fields...)
			case res.Status >= 400:
				log.Warn("request completed", fields...)
			default:
				log.Info("request completed", fields...)
			}
			return nil
		}
	}
}
