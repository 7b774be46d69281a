package mocks

import (
	"context"

	"mynotes/internal/analysis"

	"github.com/stretchr/testify/mock"
)

type MockLanguageDetector struct {
	mock.Mock
}

func (m *MockLanguageDetector) Detect(ctx context.Context, text string) ([]analysis.DetectedLanguage, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]analysis.DetectedLanguage), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEntityExtractor struct {
	mock.Mock
}

func (m *MockEntityExtractor) Extract(ctx context.Context, text, languageCode string) ([]string, error) {
	args := m.Called(ctx, text, languageCode)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockImageLabeler struct {
	mock.Mock
}

func (m *MockImageLabeler) DetectLabels(ctx context.Context, ref analysis.BlobRef, maxLabels int, minConfidence float64) ([]string, error) {
	args := m.Called(ctx, ref, maxLabels, minConfidence)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}
