// Package enrichment derives note labels from text and from uploaded files.
package enrichment

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mynotes/internal/analysis"
	"mynotes/internal/apperr"
	"mynotes/internal/model"
)

const tracerName = "mynotes/internal/enrichment"

// TextEnricher turns free text into labels.
type TextEnricher interface {
	// Enrich detects the languages of text, keeps the supported ones and
	// returns the union of the entities found in each of them. Any
	// collaborator failure aborts the call.
	Enrich(ctx context.Context, text string) (model.Labels, error)
}

type textEnricher struct {
	detector  analysis.LanguageDetector
	extractor analysis.EntityExtractor
	supported map[string]struct{}
	tracer    trace.Tracer
}

// NewTextEnricher builds a TextEnricher limited to the given language codes.
// Codes are compared case-insensitively.
func NewTextEnricher(detector analysis.LanguageDetector, extractor analysis.EntityExtractor, supported []string) TextEnricher {
	set := make(map[string]struct{}, len(supported))
	for _, c := range supported {
		set[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	return &textEnricher{
		detector:  detector,
		extractor: extractor,
		supported: set,
		tracer:    otel.Tracer(tracerName),
	}
}

func (e *textEnricher) Enrich(ctx context.Context, text string) (model.Labels, error) {
	ctx, span := e.tracer.Start(ctx, "enrichment.text")
	defer span.End()

	detected, err := e.detector.Detect(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "detect language")
		return nil, apperr.Internal("detect language", err)
	}

	langs := e.filterSupported(detected)
	span.SetAttributes(attribute.StringSlice("languages", langs))

	labels := model.NewLabels()
	for _, code := range langs {
		entities, err := e.extractor.Extract(ctx, text, code)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "extract entities")
			return nil, apperr.Internal("extract entities", err)
		}
		labels = labels.Union(entities...)
	}
	span.SetAttributes(attribute.Int("labels", len(labels)))
	return labels, nil
}

// filterSupported keeps detector order and drops repeated codes.
func (e *textEnricher) filterSupported(detected []analysis.DetectedLanguage) []string {
	out := make([]string, 0, len(detected))
	seen := make(map[string]struct{}, len(detected))
	for _, d := range detected {
		code := strings.ToLower(d.Code)
		if _, ok := e.supported[code]; !ok {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, d.Code)
	}
	return out
}
