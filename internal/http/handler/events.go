package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7/pkg/notification"

	"mynotes/internal/enrichment"
)

// EventProcessor handles one bucket notification.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, info notification.Info) enrichment.BatchResult
}

// StorageEvents godoc
// @Summary Bucket notification webhook
// @Description Receives object-created notifications. Failed records are logged and dropped.
// @Tags events
// @Accept json
// @Success 200
// @Failure 400
// @Failure 401
// @Router /events/storage [post]
func StorageEvents(proc EventProcessor, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var info notification.Info
		if err := decodeJSON(c, &info); err != nil {
			return err
		}
		res := proc.ProcessEvent(c.UserContext(), info)
		log.InfoContext(c.UserContext(), "storage webhook handled",
			slog.String("request_id", requestIDFromCtx(c)),
			slog.Int("processed", res.Processed),
			slog.Int("failed", res.Failed),
		)
		return sendStatus(c, fiber.StatusOK)
	}
}
