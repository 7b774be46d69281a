package mocks

import (
	"context"
	"time"

	"mynotes/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) PresignPut(ctx context.Context, key string, ttl time.Duration) (storage.SignedURL, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(storage.SignedURL), args.Error(1)
}

func (m *MockBlobStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (storage.SignedURL, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(storage.SignedURL), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
