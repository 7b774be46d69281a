package middleware

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"

	"mynotes/internal/apperr"
	"mynotes/internal/auth"
)

var errBadWebhookToken = errors.New("invalid webhook token")

// WebhookToken guards storage event deliveries with a shared bearer token.
// An empty token rejects every request.
func WebhookToken(token string) fiber.Handler {
	want := []byte(token)
	return func(c *fiber.Ctx) error {
		got, ok := auth.BearerToken(c)
		if !ok || len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			return apperr.New(apperr.KindUnauthorized, "storage webhook", errBadWebhookToken)
		}
		return c.Next()
	}
}
