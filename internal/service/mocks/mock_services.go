package mocks

import (
	"context"

	"mynotes/internal/model"
	"mynotes/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) Create(ctx context.Context, owner string, in service.NoteInput) (*model.Note, error) {
	args := m.Called(ctx, owner, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteService) Update(ctx context.Context, owner, noteID string, in service.NoteInput) (*model.Note, error) {
	args := m.Called(ctx, owner, noteID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *MockNoteService) List(ctx context.Context, owner string) (*model.Page[model.NoteResponse], error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.NoteResponse]), args.Error(1)
}

func (m *MockNoteService) Delete(ctx context.Context, owner, noteID string) error {
	args := m.Called(ctx, owner, noteID)
	return args.Error(0)
}

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) IssueUpload(ctx context.Context, owner string, in service.UploadInput) (*service.SignedURL, error) {
	args := m.Called(ctx, owner, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignedURL), args.Error(1)
}

func (m *MockUploadService) IssueDownload(ctx context.Context, owner, noteID string) (*service.SignedURL, error) {
	args := m.Called(ctx, owner, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignedURL), args.Error(1)
}
