package model

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is the variant tag of a note. It decides which fields are meaningful
// and whether the note is backed by a blob.
type Type string

const (
	TypeText  Type = "TEXT"
	TypeImage Type = "IMAGE"
	TypeFile  Type = "FILE"
)

var (
	ErrUnknownType     = errors.New("unknown note type")
	ErrOwnerRequired   = errors.New("owner is required")
	ErrNoteIDRequired  = errors.New("note id is required")
	ErrTitleRequired   = errors.New("title is required")
	ErrTextRequired    = errors.New("text is required")
	ErrBlobRequired    = errors.New("blob location is required")
	ErrUnexpectedBlob  = errors.New("text note cannot reference a blob")
	ErrUnexpectedText  = errors.New("file note cannot carry text")
	ErrNegativeBlobLen = errors.New("blob size must not be negative")
)

// imageExtensions are matched case-insensitively against the filename extension.
var imageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
}

// ParseType converts a persisted type tag back into a Type.
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case TypeText, TypeImage, TypeFile:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Stored reports whether notes of this type reference a blob.
func (t Type) Stored() bool {
	return t == TypeImage || t == TypeFile
}

// ClassifyFile picks IMAGE or FILE from the filename extension.
func ClassifyFile(filename string) Type {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if _, ok := imageExtensions[strings.ToLower(ext)]; ok {
		return TypeImage
	}
	return TypeFile
}

// Blob references the stored bytes of an IMAGE or FILE note.
type Blob struct {
	Location string
	Size     int64
}

// Note is the persisted entity, identified by (UserID, NoteID).
//
// Text is only set for TEXT notes and Blob only for IMAGE/FILE notes; use the
// constructors below rather than building a Note by hand.
type Note struct {
	UserID    string
	NoteID    string
	Title     string
	Type      Type
	Text      string
	Blob      *Blob
	Timestamp time.Time
	Labels    Labels
}

// NewTextNote builds a fresh TEXT note with a generated id.
func NewTextNote(userID, title, text string, labels Labels, now time.Time) (*Note, error) {
	return UpdatedTextNote(userID, uuid.NewString(), title, text, labels, now)
}

// UpdatedTextNote builds the replacement for an existing TEXT note. The id is
// kept, the timestamp refreshed.
func UpdatedTextNote(userID, noteID, title, text string, labels Labels, now time.Time) (*Note, error) {
	n := &Note{
		UserID:    userID,
		NoteID:    noteID,
		Title:     title,
		Type:      TypeText,
		Text:      text,
		Timestamp: now.UTC(),
		Labels:    NewLabels(labels...),
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewFileNote builds an IMAGE or FILE note for an uploaded object.
func NewFileNote(userID, noteID, filename, blobKey string, size int64, t Type, labels Labels, now time.Time) (*Note, error) {
	n := &Note{
		UserID:    userID,
		NoteID:    noteID,
		Title:     filename,
		Type:      t,
		Blob:      &Blob{Location: blobKey, Size: size},
		Timestamp: now.UTC(),
		Labels:    NewLabels(labels...),
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks the per-variant field rules.
func (n *Note) Validate() error {
	if n.UserID == "" {
		return ErrOwnerRequired
	}
	if n.NoteID == "" {
		return ErrNoteIDRequired
	}
	if n.Title == "" {
		return ErrTitleRequired
	}
	switch n.Type {
	case TypeText:
		if n.Text == "" {
			return ErrTextRequired
		}
		if n.Blob != nil {
			return ErrUnexpectedBlob
		}
	case TypeImage, TypeFile:
		if n.Blob == nil || n.Blob.Location == "" {
			return ErrBlobRequired
		}
		if n.Blob.Size < 0 {
			return ErrNegativeBlobLen
		}
		if n.Text != "" {
			return ErrUnexpectedText
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, n.Type)
	}
	return nil
}

// BlobLocation returns the blob key, or "" for text notes.
func (n *Note) BlobLocation() string {
	if n.Blob == nil {
		return ""
	}
	return n.Blob.Location
}
