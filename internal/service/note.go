package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"mynotes/internal/apperr"
	"mynotes/internal/enrichment"
	"mynotes/internal/logger"
	"mynotes/internal/model"
	"mynotes/internal/repository"
	"mynotes/internal/storage"
)

var ErrNoteIDRequired = errors.New("note id is required")

// NoteInput is the client-supplied part of a text note. Any owner field in
// the request body is not part of it.
type NoteInput struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (in NoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Text, validation.Required),
	)
}

// NoteService defines the note lifecycle use cases. owner is always the
// resolved caller identity.
type NoteService interface {
	// Create enriches and stores a new text note.
	Create(ctx context.Context, owner string, in NoteInput) (*model.Note, error)

	// Update re-enriches and replaces the note at noteID. A missing note is
	// created.
	Update(ctx context.Context, owner, noteID string, in NoteInput) (*model.Note, error)

	// List returns every note of owner as a single page.
	List(ctx context.Context, owner string) (*model.Page[model.NoteResponse], error)

	// Delete removes the note and releases its blob. Missing notes are not an error.
	Delete(ctx context.Context, owner, noteID string) error
}

type noteService struct {
	repo     repository.NoteRepository
	store    storage.BlobStore
	enricher enrichment.TextEnricher
	log      *slog.Logger
	now      func() time.Time
}

// NewNoteService constructs a new NoteService.
func NewNoteService(repo repository.NoteRepository, store storage.BlobStore, enricher enrichment.TextEnricher, log *slog.Logger) NoteService {
	return &noteService{
		repo:     repo,
		store:    store,
		enricher: enricher,
		log:      log.With(slog.String("component", "note_service")),
		now:      time.Now,
	}
}

func (s *noteService) Create(ctx context.Context, owner string, in NoteInput) (*model.Note, error) {
	const op = "create note"
	if owner == "" {
		return nil, apperr.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, apperr.Invalid(op, err)
	}

	labels, err := s.enricher.Enrich(ctx, in.Text)
	if err != nil {
		return nil, err
	}

	note, err := model.NewTextNote(owner, in.Title, in.Text, labels, s.now())
	if err != nil {
		return nil, apperr.Invalid(op, err)
	}
	if err := s.repo.Put(ctx, note); err != nil {
		return nil, apperr.Internal(op, err)
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, owner, noteID string, in NoteInput) (*model.Note, error) {
	const op = "update note"
	if owner == "" {
		return nil, apperr.ErrUnauthorized
	}
	if noteID == "" {
		return nil, apperr.Invalid(op, ErrNoteIDRequired)
	}
	if err := in.Validate(); err != nil {
		return nil, apperr.Invalid(op, err)
	}

	labels, err := s.enricher.Enrich(ctx, in.Text)
	if err != nil {
		return nil, err
	}

	note, err := model.UpdatedTextNote(owner, noteID, in.Title, in.Text, labels, s.now())
	if err != nil {
		return nil, apperr.Invalid(op, err)
	}
	if err := s.repo.Put(ctx, note); err != nil {
		return nil, apperr.Internal(op, err)
	}
	return note, nil
}

func (s *noteService) List(ctx context.Context, owner string) (*model.Page[model.NoteResponse], error) {
	if owner == "" {
		return nil, apperr.ErrUnauthorized
	}
	notes, err := s.repo.Query(ctx, owner)
	if err != nil {
		return nil, apperr.Internal("list notes", err)
	}
	return &model.Page[model.NoteResponse]{Items: model.Responses(notes), HasMore: false}, nil
}

func (s *noteService) Delete(ctx context.Context, owner, noteID string) error {
	const op = "delete note"
	if owner == "" {
		return apperr.ErrUnauthorized
	}
	if noteID == "" {
		return apperr.Invalid(op, ErrNoteIDRequired)
	}

	removed, err := s.repo.Delete(ctx, owner, noteID)
	if err != nil {
		return apperr.Internal(op, err)
	}
	if removed == nil || removed.BlobLocation() == "" {
		return nil
	}

	// The record is already gone; a leftover blob is only logged.
	if err := s.store.Delete(ctx, removed.BlobLocation()); err != nil {
		s.log.WarnContext(ctx, "release blob failed",
			slog.String("user_id", owner),
			slog.String("note_id", noteID),
			slog.String("blob", removed.BlobLocation()),
			logger.Err(err),
		)
	}
	return nil
}
