package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"mynotes/internal/apperr"
	"mynotes/internal/enrichment"
	"mynotes/internal/repository"
	"mynotes/internal/storage"
)

var ErrNotStored = errors.New("note has no stored file")

var singleSegment = regexp.MustCompile(`^[^/]+$`)

// UploadInput names the file the client is about to upload.
type UploadInput struct {
	Name string `json:"name"`
}

func (in UploadInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required,
			validation.Length(1, 255),
			validation.Match(singleSegment).Error("must not contain '/'"),
		),
	)
}

// SignedURL is a time-limited handle returned to the client. NoteID is only
// set for upload handles: it is the id the note will get once the upload lands.
type SignedURL struct {
	URL       string    `json:"url"`
	NoteID    string    `json:"noteId,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadService issues signed handles for note files.
type UploadService interface {
	// IssueUpload returns a write handle for {owner}/{uploadId}/{name}.
	// Nothing is persisted; the note appears once the storage event is processed.
	IssueUpload(ctx context.Context, owner string, in UploadInput) (*SignedURL, error)

	// IssueDownload returns a read handle for the blob of an IMAGE or FILE note.
	IssueDownload(ctx context.Context, owner, noteID string) (*SignedURL, error)
}

type uploadService struct {
	repo        repository.NoteRepository
	store       storage.BlobStore
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// NewUploadService constructs a new UploadService.
func NewUploadService(repo repository.NoteRepository, store storage.BlobStore, uploadTTL, downloadTTL time.Duration) UploadService {
	return &uploadService{repo: repo, store: store, uploadTTL: uploadTTL, downloadTTL: downloadTTL}
}

func (s *uploadService) IssueUpload(ctx context.Context, owner string, in UploadInput) (*SignedURL, error) {
	const op = "issue upload"
	if owner == "" {
		return nil, apperr.ErrUnauthorized
	}
	if err := in.Validate(); err != nil {
		return nil, apperr.Invalid(op, err)
	}

	key := enrichment.ObjectKey{UserID: owner, UploadID: uuid.NewString(), Filename: in.Name}
	signed, err := s.store.PresignPut(ctx, key.String(), s.uploadTTL)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	return &SignedURL{URL: signed.URL, NoteID: key.UploadID, ExpiresAt: signed.ExpiresAt}, nil
}

func (s *uploadService) IssueDownload(ctx context.Context, owner, noteID string) (*SignedURL, error) {
	const op = "issue download"
	if owner == "" {
		return nil, apperr.ErrUnauthorized
	}
	if noteID == "" {
		return nil, apperr.Invalid(op, ErrNoteIDRequired)
	}

	note, err := s.repo.Get(ctx, owner, noteID)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	if note == nil {
		return nil, fmt.Errorf("%s: note %s: %w", op, noteID, apperr.ErrNotFound)
	}
	if !note.Type.Stored() {
		return nil, apperr.Invalid(op, fmt.Errorf("%w: %s is %s", ErrNotStored, noteID, note.Type))
	}

	signed, err := s.store.PresignGet(ctx, note.BlobLocation(), s.downloadTTL)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	return &SignedURL{URL: signed.URL, ExpiresAt: signed.ExpiresAt}, nil
}
