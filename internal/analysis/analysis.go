// Package analysis holds the content-analysis capabilities used to derive
// note labels, together with their concrete adapters.
package analysis

import "context"

// DetectedLanguage is one candidate returned by a LanguageDetector.
// Code is a lower-case ISO 639-1 code; Confidence is in [0, 1].
type DetectedLanguage struct {
	Code       string
	Confidence float64
}

// LanguageDetector ranks the languages a text is written in, most likely first.
type LanguageDetector interface {
	Detect(ctx context.Context, text string) ([]DetectedLanguage, error)
}

// EntityExtractor returns the entity spans found in text for one language.
type EntityExtractor interface {
	Extract(ctx context.Context, text, languageCode string) ([]string, error)
}

// BlobRef points at a stored object.
type BlobRef struct {
	Bucket string
	Key    string
}

// ImageLabeler names what is visible in a stored image. minConfidence is a
// percentage; at most maxLabels names are returned.
type ImageLabeler interface {
	DetectLabels(ctx context.Context, ref BlobRef, maxLabels int, minConfidence float64) ([]string, error)
}
