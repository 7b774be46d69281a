package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mynotes/internal/model"
	"mynotes/internal/repository"
)

const noteColumns = `user_id, note_id, type, title, text, blob_location, size, labels, created_at`

// NotePostgres is a PostgreSQL implementation of repository.NoteRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type NotePostgres struct {
	db *sql.DB
}

// NewNotePostgres creates a new NotePostgres repository.
func NewNotePostgres(db *sql.DB) *NotePostgres {
	return &NotePostgres{db: db}
}

var _ repository.NoteRepository = (*NotePostgres)(nil)

// Put inserts the note or replaces every column of the existing row.
func (r *NotePostgres) Put(ctx context.Context, n *model.Note) error {
	const q = `
		INSERT INTO notes (` + noteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, note_id) DO UPDATE SET
			type          = EXCLUDED.type,
			title         = EXCLUDED.title,
			text          = EXCLUDED.text,
			blob_location = EXCLUDED.blob_location,
			size          = EXCLUDED.size,
			labels        = EXCLUDED.labels,
			created_at    = EXCLUDED.created_at
	`
	labels, err := json.Marshal(model.NewLabels(n.Labels...))
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}

	var (
		text sql.NullString
		blob sql.NullString
		size sql.NullInt64
	)
	if n.Text != "" {
		text = sql.NullString{String: n.Text, Valid: true}
	}
	if n.Blob != nil {
		blob = sql.NullString{String: n.Blob.Location, Valid: true}
		size = sql.NullInt64{Int64: n.Blob.Size, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, q,
		n.UserID,
		n.NoteID,
		string(n.Type),
		n.Title,
		text,
		blob,
		size,
		string(labels),
		n.Timestamp,
	)
	return err
}

// Get fetches a single note by owner and id.
func (r *NotePostgres) Get(ctx context.Context, userID, noteID string) (*model.Note, error) {
	const q = `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1 AND note_id = $2
	`
	n, err := scanNote(r.db.QueryRowContext(ctx, q, userID, noteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Query returns all notes of one owner.
func (r *NotePostgres) Query(ctx context.Context, userID string) ([]model.Note, error) {
	const q = `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC, note_id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes the row and returns its previous contents.
func (r *NotePostgres) Delete(ctx context.Context, userID, noteID string) (*model.Note, error) {
	const q = `
		DELETE FROM notes
		WHERE user_id = $1 AND note_id = $2
		RETURNING ` + noteColumns
	n, err := scanNote(r.db.QueryRowContext(ctx, q, userID, noteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*model.Note, error) {
	var (
		n         model.Note
		typ       string
		text      sql.NullString
		blob      sql.NullString
		size      sql.NullInt64
		labels    []byte
		createdAt time.Time
	)
	if err := row.Scan(
		&n.UserID,
		&n.NoteID,
		&typ,
		&n.Title,
		&text,
		&blob,
		&size,
		&labels,
		&createdAt,
	); err != nil {
		return nil, err
	}

	t, err := model.ParseType(typ)
	if err != nil {
		return nil, err
	}
	n.Type = t
	n.Text = text.String
	n.Timestamp = createdAt.UTC()
	if blob.Valid {
		n.Blob = &model.Blob{Location: blob.String, Size: size.Int64}
	}

	var decoded []string
	if len(labels) > 0 {
		if err := json.Unmarshal(labels, &decoded); err != nil {
			return nil, fmt.Errorf("decode labels: %w", err)
		}
	}
	n.Labels = model.NewLabels(decoded...)
	return &n, nil
}
