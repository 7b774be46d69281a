package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"mynotes/internal/apperr"
	"mynotes/internal/http/middleware"
	"mynotes/internal/logger"
)

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// sendStatus ends the request with status and an empty body.
func sendStatus(c *fiber.Ctx, status int) error {
	c.Response().ResetBody()
	c.Status(status)
	return nil
}

// ErrorHandler returns a Fiber global error handler. The status code is the
// only signal sent to the client; the full error is logged.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := middleware.StatusOf(err)

		level := slog.LevelWarn
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		log.LogAttrs(c.UserContext(), level, "request failed",
			slog.String("request_id", requestIDFromCtx(c)),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.String("kind", apperr.KindOf(err).String()),
			logger.Err(err),
		)

		return sendStatus(c, status)
	}
}
