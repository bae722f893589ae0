package middleware

import (
	"github.com/attestra/go-anoncred-infra/internal/util"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// RequestLogger attaches a request-scoped zerolog logger (with a request id)
// to the context and logs the request outcome.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := uuid.New().String()
			logger := log.With().
				Str("request_id", requestID).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Logger()

			req := c.Request()
			c.SetRequest(req.WithContext(util.WithLogger(req.Context(), logger)))
			c.Response().Header().Set("X-Request-ID", requestID)

			err := next(c)
			if err != nil {
				logger.Warn().Err(err).Int("status", c.Response().Status).Msg("Request failed")
			} else {
				logger.Debug().Int("status", c.Response().Status).Msg("Request handled")
			}
			return err
		}
	}
}
