package mocks

import (
	"context"

	"mynotes/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTextEnricher struct {
	mock.Mock
}

func (m *MockTextEnricher) Enrich(ctx context.Context, text string) (model.Labels, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Labels), args.Error(1)
}
