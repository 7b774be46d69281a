package analysis

import (
	"context"
	"strings"

	"github.com/pemistahl/lingua-go"
)

const (
	defaultMinLanguageConfidence = 0.2
	defaultMaxLanguages          = 3
)

// LinguaDetector detects languages locally with lingua-go.
//
// lingua scores every language it knows, so candidates below minConfidence
// are discarded and at most maxLanguages are returned.
type LinguaDetector struct {
	detector      lingua.LanguageDetector
	minConfidence float64
	maxLanguages  int
}

var _ LanguageDetector = (*LinguaDetector)(nil)

// NewLinguaDetector builds a detector restricted to the given ISO 639-1 codes.
// Fewer than two known codes means all languages.
func NewLinguaDetector(codes []string) *LinguaDetector {
	var isoCodes []lingua.IsoCode639_1
	for _, c := range codes {
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(c)))
		if iso != lingua.UnknownIsoCode639_1 {
			isoCodes = append(isoCodes, iso)
		}
	}

	var builder lingua.LanguageDetectorBuilder
	if len(isoCodes) >= 2 {
		builder = lingua.NewLanguageDetectorBuilder().FromIsoCodes639_1(isoCodes...)
	} else {
		builder = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	}

	return &LinguaDetector{
		detector:      builder.Build(),
		minConfidence: defaultMinLanguageConfidence,
		maxLanguages:  defaultMaxLanguages,
	}
}

// Detect returns the ranked candidates for text.
func (d *LinguaDetector) Detect(_ context.Context, text string) ([]DetectedLanguage, error) {
	values := d.detector.ComputeLanguageConfidenceValues(text)

	out := make([]DetectedLanguage, 0, d.maxLanguages)
	for _, v := range values {
		if len(out) == d.maxLanguages {
			break
		}
		if v.Value() < d.minConfidence {
			continue
		}
		out = append(out, DetectedLanguage{
			Code:       strings.ToLower(v.Language().IsoCode639_1().String()),
			Confidence: v.Value(),
		})
	}
	return out, nil
}
