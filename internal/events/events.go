// Package events delivers object-created records to the file pipeline.
package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/notification"

	"mynotes/internal/enrichment"
	"mynotes/internal/logger"
)

var ErrStreamClosed = errors.New("bucket notification stream closed")

const resubscribeDelay = 2 * time.Second

var objectCreatedEvents = []string{string(notification.ObjectCreatedAll)}

// BatchHandler consumes one batch of records.
type BatchHandler interface {
	ProcessBatch(ctx context.Context, records []enrichment.ObjectCreated) enrichment.BatchResult
}

// Source delivers batches of object-created records until ctx is done.
type Source interface {
	Run(ctx context.Context, h BatchHandler) error
}

// listenFunc matches (*minio.Client).ListenBucketNotification.
type listenFunc func(ctx context.Context, bucket, prefix, suffix string, events []string) <-chan notification.Info

// MinIOListener subscribes to the bucket's notification stream.
type MinIOListener struct {
	listen     listenFunc
	bucket     string
	log        *slog.Logger
	retryDelay time.Duration
}

var _ Source = (*MinIOListener)(nil)

func NewMinIOListener(client *minio.Client, bucket string, log *slog.Logger) *MinIOListener {
	return &MinIOListener{
		listen:     client.ListenBucketNotification,
		bucket:     bucket,
		log:        log.With(slog.String("component", "bucket_listener")),
		retryDelay: resubscribeDelay,
	}
}

// Run blocks until ctx is cancelled. Each notification becomes one batch.
// A stream that closes early, e.g. when MinIO restarts, is resubscribed
// after retryDelay.
func (l *MinIOListener) Run(ctx context.Context, h BatchHandler) error {
	for {
		err := l.consume(ctx, h)
		if ctx.Err() != nil {
			return nil
		}
		l.log.WarnContext(ctx, "resubscribing to bucket notifications", logger.Err(err))

		t := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// consume reads one subscription until it closes or ctx is done.
func (l *MinIOListener) consume(ctx context.Context, h BatchHandler) error {
	l.log.InfoContext(ctx, "listening for bucket notifications", slog.String("bucket", l.bucket))
	ch := l.listen(ctx, l.bucket, "", "", objectCreatedEvents)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case info, ok := <-ch:
			if !ok {
				return ErrStreamClosed
			}
			if info.Err != nil {
				l.log.ErrorContext(ctx, "bucket notification error", logger.Err(info.Err))
				continue
			}
			records := enrichment.ObjectCreatedRecords(info)
			if len(records) == 0 {
				continue
			}
			res := h.ProcessBatch(ctx, records)
			l.log.DebugContext(ctx, "notification handled",
				slog.Int("processed", res.Processed),
				slog.Int("failed", res.Failed),
			)
		}
	}
}
