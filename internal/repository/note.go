package repository

import (
	"context"

	"mynotes/internal/model"
)

// NoteRepository persists notes keyed by (userID, noteID).
// Implementations only persist; enrichment happens in the services.
type NoteRepository interface {
	// Put upserts the note: it creates the row or fully replaces the existing one.
	Put(ctx context.Context, note *model.Note) error

	// Get returns the note, or (nil, nil) when it does not exist.
	Get(ctx context.Context, userID, noteID string) (*model.Note, error)

	// Query returns every note owned by userID, newest first.
	Query(ctx context.Context, userID string) ([]model.Note, error)

	// Delete removes the note and returns it as it was before deletion,
	// or (nil, nil) when there was nothing to remove.
	Delete(ctx context.Context, userID, noteID string) (*model.Note, error)
}
