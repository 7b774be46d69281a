package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		filename string
		want     Type
	}{
		{"photo.JPG", TypeImage},
		{"photo.jpeg", TypeImage},
		{"anim.Gif", TypeImage},
		{"scan.bmp", TypeImage},
		{"logo.png", TypeImage},
		{"report.pdf", TypeFile},
		{"archive.tar.gz", TypeFile},
		{"noext", TypeFile},
		{"png", TypeFile},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFile(tt.filename))
		})
	}
}

func TestNewTextNote(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	n, err := NewTextNote("u1", "title", "body", Labels{"a", "a", "b"}, now)
	require.NoError(t, err)

	assert.NotEmpty(t, n.NoteID)
	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, TypeText, n.Type)
	assert.Nil(t, n.Blob)
	assert.Equal(t, now, n.Timestamp)
	assert.Equal(t, Labels{"a", "b"}, n.Labels)

	other, err := NewTextNote("u1", "title", "body", nil, now)
	require.NoError(t, err)
	assert.NotEqual(t, n.NoteID, other.NoteID)
	assert.NotNil(t, other.Labels)
}

func TestUpdatedTextNote(t *testing.T) {
	now := time.Now()

	n, err := UpdatedTextNote("u1", "n1", "t", "x", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "n1", n.NoteID)

	_, err = UpdatedTextNote("u1", "", "t", "x", nil, now)
	assert.ErrorIs(t, err, ErrNoteIDRequired)

	_, err = UpdatedTextNote("u1", "n1", "", "x", nil, now)
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = UpdatedTextNote("u1", "n1", "t", "", nil, now)
	assert.ErrorIs(t, err, ErrTextRequired)

	_, err = UpdatedTextNote("", "n1", "t", "x", nil, now)
	assert.ErrorIs(t, err, ErrOwnerRequired)
}

func TestNewFileNote(t *testing.T) {
	now := time.Now()

	n, err := NewFileNote("u1", "up1", "photo.JPG", "u1/up1/photo.JPG", 42, TypeImage, Labels{"Dog"}, now)
	require.NoError(t, err)
	assert.Equal(t, "up1", n.NoteID)
	assert.Equal(t, "photo.JPG", n.Title)
	assert.Equal(t, "u1/up1/photo.JPG", n.BlobLocation())
	assert.Empty(t, n.Text)

	_, err = NewFileNote("u1", "up1", "a.pdf", "", 1, TypeFile, nil, now)
	assert.ErrorIs(t, err, ErrBlobRequired)

	_, err = NewFileNote("u1", "up1", "a.pdf", "k", -1, TypeFile, nil, now)
	assert.ErrorIs(t, err, ErrNegativeBlobLen)

	_, err = NewFileNote("u1", "up1", "a.pdf", "k", 1, TypeText, nil, now)
	assert.ErrorIs(t, err, ErrTextRequired)
}

func TestNoteValidate_VariantRules(t *testing.T) {
	n := &Note{UserID: "u", NoteID: "n", Title: "t", Type: TypeText, Text: "x", Blob: &Blob{Location: "k"}}
	assert.ErrorIs(t, n.Validate(), ErrUnexpectedBlob)

	n = &Note{UserID: "u", NoteID: "n", Title: "t", Type: TypeFile, Text: "x", Blob: &Blob{Location: "k"}}
	assert.ErrorIs(t, n.Validate(), ErrUnexpectedText)

	n = &Note{UserID: "u", NoteID: "n", Title: "t", Type: "VIDEO"}
	assert.ErrorIs(t, n.Validate(), ErrUnknownType)
}

func TestParseType(t *testing.T) {
	got, err := ParseType("IMAGE")
	require.NoError(t, err)
	assert.Equal(t, TypeImage, got)
	assert.True(t, got.Stored())
	assert.False(t, TypeText.Stored())

	_, err = ParseType("image")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestNoteResponse(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	text, err := NewTextNote("u1", "t", "body", Labels{"x"}, now)
	require.NoError(t, err)

	raw, err := json.Marshal(text.Response())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "body", m["text"])
	assert.Equal(t, float64(1700000000123), m["timestamp"])
	assert.Equal(t, "TEXT", m["type"])
	assert.NotContains(t, m, "size")
	assert.NotContains(t, m, "userId")
	assert.NotContains(t, m, "blobLocation")

	file, err := NewFileNote("u1", "up1", "a.pdf", "u1/up1/a.pdf", 0, TypeFile, nil, now)
	require.NoError(t, err)
	r := file.Response()
	require.NotNil(t, r.Size)
	assert.Equal(t, int64(0), *r.Size)
	assert.Empty(t, r.Text)
	assert.NotNil(t, r.Labels)
}

func TestResponses_NeverNil(t *testing.T) {
	assert.NotNil(t, Responses(nil))
	assert.Len(t, Responses(nil), 0)
}

func TestLabels(t *testing.T) {
	l := NewLabels("b", "a", "b")
	assert.Equal(t, Labels{"b", "a"}, l)
	assert.Contains(t, l, "a")
	assert.NotContains(t, l, "c")
	assert.Equal(t, Labels{"b", "a", "c"}, l.Union("a", "c"))
	assert.NotNil(t, NewLabels())
}
