package enrichment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mynotes/internal/analysis"
	"mynotes/internal/apperr"
	"mynotes/internal/logger"
	"mynotes/internal/model"
	"mynotes/internal/repository"
)

const (
	MaxImageLabels     = 10
	MinLabelConfidence = 75.0

	objectCreatedPrefix = "s3:ObjectCreated:"
)

const (
	resultProcessed = "processed"
	resultMalformed = "malformed"
	resultFailed    = "failed"
)

// ObjectCreated is one object-created record from the storage service.
// Key is still percent-encoded.
type ObjectCreated struct {
	Bucket string
	Key    string
	Size   int64
}

// BatchResult summarises a ProcessBatch call.
type BatchResult struct {
	Processed int
	Failed    int
}

// FileProcessor turns object-created records into IMAGE/FILE notes.
type FileProcessor struct {
	repo    repository.NoteRepository
	labeler analysis.ImageLabeler
	log     *slog.Logger
	records *prometheus.CounterVec
	tracer  trace.Tracer
	now     func() time.Time
}

// NewFileProcessor registers the file record counter on reg.
func NewFileProcessor(repo repository.NoteRepository, labeler analysis.ImageLabeler, log *slog.Logger, reg prometheus.Registerer) (*FileProcessor, error) {
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mynotes_file_records_total",
			Help: "Object-created records handled by the file pipeline, by result.",
		},
		[]string{"result"},
	)
	if err := reg.Register(records); err != nil {
		return nil, err
	}

	return &FileProcessor{
		repo:    repo,
		labeler: labeler,
		log:     log.With(slog.String("component", "file_pipeline")),
		records: records,
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}, nil
}

// ProcessBatch handles records one after another in delivered order. A failed
// record is logged and counted; it never stops the rest of the batch.
func (p *FileProcessor) ProcessBatch(ctx context.Context, records []ObjectCreated) BatchResult {
	ctx, span := p.tracer.Start(ctx, "enrichment.file_batch",
		trace.WithAttributes(attribute.Int("records", len(records))))
	defer span.End()

	var res BatchResult
	for _, rec := range records {
		if err := p.processRecord(ctx, rec); err != nil {
			res.Failed++
			continue
		}
		res.Processed++
	}
	span.SetAttributes(attribute.Int("processed", res.Processed), attribute.Int("failed", res.Failed))
	return res
}

func (p *FileProcessor) processRecord(ctx context.Context, rec ObjectCreated) error {
	key, err := ParseObjectKey(rec.Key)
	if err != nil {
		p.records.WithLabelValues(resultMalformed).Inc()
		p.log.WarnContext(ctx, "skip object record",
			slog.String("bucket", rec.Bucket),
			slog.String("key", rec.Key),
			slog.String("kind", apperr.KindInvalid.String()),
			logger.Err(err),
		)
		return err
	}

	if err := p.storeNote(ctx, rec, key); err != nil {
		p.records.WithLabelValues(resultFailed).Inc()
		p.log.ErrorContext(ctx, "object record failed",
			slog.String("bucket", rec.Bucket),
			slog.String("key", key.String()),
			slog.String("kind", apperr.KindOf(err).String()),
			logger.Err(err),
		)
		return err
	}

	p.records.WithLabelValues(resultProcessed).Inc()
	p.log.InfoContext(ctx, "object record stored",
		slog.String("user_id", key.UserID),
		slog.String("note_id", key.UploadID),
	)
	return nil
}

func (p *FileProcessor) storeNote(ctx context.Context, rec ObjectCreated, key ObjectKey) error {
	ctx, span := p.tracer.Start(ctx, "enrichment.file_record")
	defer span.End()

	blobKey := key.String()
	typ := model.ClassifyFile(key.Filename)
	span.SetAttributes(attribute.String("note.type", string(typ)))

	labels := model.NewLabels()
	if typ == model.TypeImage {
		detected, err := p.labeler.DetectLabels(ctx, analysis.BlobRef{Bucket: rec.Bucket, Key: blobKey}, MaxImageLabels, MinLabelConfidence)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "detect labels")
			return apperr.Internal("detect labels", err)
		}
		labels = model.NewLabels(detected...)
	}

	note, err := model.NewFileNote(key.UserID, key.UploadID, key.Filename, blobKey, rec.Size, typ, labels, p.now())
	if err != nil {
		return apperr.Invalid("build file note", err)
	}
	if err := p.repo.Put(ctx, note); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "put note")
		return apperr.Internal("put note", err)
	}
	return nil
}

// ProcessEvent feeds the object-created records of a bucket notification
// through ProcessBatch. Other event types are ignored.
func (p *FileProcessor) ProcessEvent(ctx context.Context, info notification.Info) BatchResult {
	if info.Err != nil {
		p.log.ErrorContext(ctx, "bucket notification error", logger.Err(info.Err))
	}
	return p.ProcessBatch(ctx, ObjectCreatedRecords(info))
}

// ObjectCreatedRecords extracts the object-created records of a notification.
func ObjectCreatedRecords(info notification.Info) []ObjectCreated {
	out := make([]ObjectCreated, 0, len(info.Records))
	for _, ev := range info.Records {
		if !strings.HasPrefix(ev.EventName, objectCreatedPrefix) {
			continue
		}
		out = append(out, ObjectCreated{
			Bucket: ev.S3.Bucket.Name,
			Key:    ev.S3.Object.Key,
			Size:   ev.S3.Object.Size,
		})
	}
	return out
}
