package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mynotes/internal/analysis"
	amocks "mynotes/internal/analysis/mocks"
	"mynotes/internal/model"
	rmocks "mynotes/internal/repository/mocks"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestProcessor(t *testing.T) (*FileProcessor, *rmocks.MockNoteRepository, *amocks.MockImageLabeler, *bytes.Buffer) {
	t.Helper()
	repo := new(rmocks.MockNoteRepository)
	labeler := new(amocks.MockImageLabeler)
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	p, err := NewFileProcessor(repo, labeler, log, prometheus.NewRegistry())
	require.NoError(t, err)
	p.now = func() time.Time { return fixedNow }
	return p, repo, labeler, &buf
}

func TestFileProcessor_ImageRecord(t *testing.T) {
	p, repo, labeler, _ := newTestProcessor(t)

	labeler.On("DetectLabels", mock.Anything, analysis.BlobRef{Bucket: "notes", Key: "u1/up1/photo.JPG"}, 10, 75.0).
		Return([]string{"Dog", "Dog", "Grass"}, nil)
	repo.On("Put", mock.Anything, mock.MatchedBy(func(n *model.Note) bool {
		return n.UserID == "u1" && n.NoteID == "up1" && n.Title == "photo.JPG" &&
			n.Type == model.TypeImage && n.BlobLocation() == "u1/up1/photo.JPG" &&
			n.Blob.Size == 2048 && n.Timestamp.Equal(fixedNow) &&
			slices.Equal(n.Labels, model.Labels{"Dog", "Grass"})
	})).Return(nil)

	res := p.ProcessBatch(context.Background(), []ObjectCreated{{Bucket: "notes", Key: "u1/up1/photo.JPG", Size: 2048}})
	assert.Equal(t, BatchResult{Processed: 1}, res)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.records.WithLabelValues(resultProcessed)))
	repo.AssertExpectations(t)
	labeler.AssertExpectations(t)
}

func TestFileProcessor_NonImageRecord(t *testing.T) {
	p, repo, labeler, _ := newTestProcessor(t)

	repo.On("Put", mock.Anything, mock.MatchedBy(func(n *model.Note) bool {
		return n.Type == model.TypeFile && n.Title == "report.pdf" &&
			n.Labels != nil && len(n.Labels) == 0
	})).Return(nil)

	res := p.ProcessBatch(context.Background(), []ObjectCreated{{Bucket: "notes", Key: "u1/up2/report.pdf", Size: 10}})
	assert.Equal(t, BatchResult{Processed: 1}, res)
	labeler.AssertNotCalled(t, "DetectLabels", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFileProcessor_DecodesKey(t *testing.T) {
	p, repo, _, _ := newTestProcessor(t)

	repo.On("Put", mock.Anything, mock.MatchedBy(func(n *model.Note) bool {
		return n.Title == "q3 report.pdf" && n.BlobLocation() == "u1/up3/q3 report.pdf"
	})).Return(nil)

	res := p.ProcessBatch(context.Background(), []ObjectCreated{{Bucket: "notes", Key: "u1/up3/q3+report.pdf"}})
	assert.Equal(t, 1, res.Processed)
	repo.AssertExpectations(t)
}

func TestFileProcessor_MalformedKeyDoesNotStopBatch(t *testing.T) {
	p, repo, _, buf := newTestProcessor(t)

	repo.On("Put", mock.Anything, mock.MatchedBy(func(n *model.Note) bool {
		return n.UserID == "u1" && n.NoteID == "up9"
	})).Return(nil).Once()

	res := p.ProcessBatch(context.Background(), []ObjectCreated{
		{Bucket: "notes", Key: "u1/orphan.pdf"},
		{Bucket: "notes", Key: "u1/up9/notes.txt", Size: 3},
	})
	assert.Equal(t, BatchResult{Processed: 1, Failed: 1}, res)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.records.WithLabelValues(resultMalformed)))
	assert.Contains(t, buf.String(), "skip object record")
	repo.AssertExpectations(t)
}

func TestFileProcessor_FailuresAreContained(t *testing.T) {
	p, repo, labeler, buf := newTestProcessor(t)

	labeler.On("DetectLabels", mock.Anything, analysis.BlobRef{Bucket: "notes", Key: "u1/a/x.png"}, 10, 75.0).
		Return(nil, errors.New("vision down"))
	repo.On("Put", mock.Anything, mock.MatchedBy(func(n *model.Note) bool { return n.NoteID == "b" })).
		Return(errors.New("db down"))
	repo.On("Put", mock.Anything, mock.MatchedBy(func(n *model.Note) bool { return n.NoteID == "c" })).
		Return(nil)

	res := p.ProcessBatch(context.Background(), []ObjectCreated{
		{Bucket: "notes", Key: "u1/a/x.png"},
		{Bucket: "notes", Key: "u1/b/y.pdf"},
		{Bucket: "notes", Key: "u1/c/z.pdf"},
	})
	assert.Equal(t, BatchResult{Processed: 1, Failed: 2}, res)
	assert.Equal(t, 2.0, testutil.ToFloat64(p.records.WithLabelValues(resultFailed)))
	assert.Contains(t, buf.String(), `"kind":"internal"`)
}

func TestFileProcessor_ProcessEvent(t *testing.T) {
	p, repo, _, _ := newTestProcessor(t)

	payload := `{"Records":[
		{"eventName":"s3:ObjectCreated:Put","s3":{"bucket":{"name":"notes"},"object":{"key":"u1/up1/a.pdf","size":42}}},
		{"eventName":"s3:ObjectRemoved:Delete","s3":{"bucket":{"name":"notes"},"object":{"key":"u1/up2/b.pdf"}}}
	]}`
	var info notification.Info
	require.NoError(t, json.Unmarshal([]byte(payload), &info))

	repo.On("Put", mock.Anything, mock.MatchedBy(func(n *model.Note) bool {
		return n.NoteID == "up1" && n.Blob.Size == 42
	})).Return(nil).Once()

	res := p.ProcessEvent(context.Background(), info)
	assert.Equal(t, BatchResult{Processed: 1}, res)
	repo.AssertExpectations(t)
}

func TestNewFileProcessor_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	_, err := NewFileProcessor(new(rmocks.MockNoteRepository), new(amocks.MockImageLabeler), log, reg)
	require.NoError(t, err)
	_, err = NewFileProcessor(new(rmocks.MockNoteRepository), new(amocks.MockImageLabeler), log, reg)
	assert.Error(t, err)
}
