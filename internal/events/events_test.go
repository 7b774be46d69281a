package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mynotes/internal/enrichment"
)

type recordingHandler struct {
	mu      sync.Mutex
	batches [][]enrichment.ObjectCreated
}

func (r *recordingHandler) ProcessBatch(_ context.Context, records []enrichment.ObjectCreated) enrichment.BatchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, records)
	return enrichment.BatchResult{Processed: len(records)}
}

func (r *recordingHandler) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func newListener(ch chan notification.Info, buf *bytes.Buffer) (*MinIOListener, *[]string) {
	var gotEvents []string
	return &MinIOListener{
		listen: func(_ context.Context, bucket, _, _ string, events []string) <-chan notification.Info {
			gotEvents = append(gotEvents, events...)
			return ch
		},
		bucket: "notes",
		log:    slog.New(slog.NewJSONHandler(buf, nil)),
	}, &gotEvents
}

func info(t *testing.T, payload string) notification.Info {
	t.Helper()
	var i notification.Info
	require.NoError(t, json.Unmarshal([]byte(payload), &i))
	return i
}

func TestMinIOListener_ForwardsObjectCreated(t *testing.T) {
	ch := make(chan notification.Info, 3)
	var buf bytes.Buffer
	l, gotEvents := newListener(ch, &buf)
	h := &recordingHandler{}

	ch <- info(t, `{"Records":[{"eventName":"s3:ObjectCreated:Put","s3":{"bucket":{"name":"notes"},"object":{"key":"u1/up1/a.png","size":5}}}]}`)
	ch <- notification.Info{Err: errors.New("stream hiccup")}
	ch <- info(t, `{"Records":[{"eventName":"s3:ObjectRemoved:Delete","s3":{"bucket":{"name":"notes"},"object":{"key":"u1/up1/a.png"}}}]}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, h) }()

	require.Eventually(t, func() bool { return len(ch) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	require.Equal(t, 1, h.count())
	assert.Equal(t, []enrichment.ObjectCreated{{Bucket: "notes", Key: "u1/up1/a.png", Size: 5}}, h.batches[0])
	assert.Equal(t, []string{"s3:ObjectCreated:*"}, *gotEvents)
	assert.Contains(t, buf.String(), "stream hiccup")
}

func TestMinIOListener_ResubscribesWhenStreamCloses(t *testing.T) {
	closed := make(chan notification.Info)
	close(closed)
	live := make(chan notification.Info, 1)
	live <- info(t, `{"Records":[{"eventName":"s3:ObjectCreated:Put","s3":{"bucket":{"name":"notes"},"object":{"key":"u1/up2/b.txt","size":1}}}]}`)

	var (
		mu    sync.Mutex
		calls int
	)
	var buf bytes.Buffer
	l := &MinIOListener{
		listen: func(context.Context, string, string, string, []string) <-chan notification.Info {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls == 1 {
				return closed
			}
			return live
		},
		bucket:     "notes",
		log:        slog.New(slog.NewJSONHandler(&buf, nil)),
		retryDelay: time.Millisecond,
	}
	h := &recordingHandler{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, h) }()

	require.Eventually(t, func() bool { return h.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()
	assert.Contains(t, buf.String(), ErrStreamClosed.Error())
}

func TestMinIOListener_StopsDuringRetryDelay(t *testing.T) {
	ch := make(chan notification.Info)
	close(ch)
	l, _ := newListener(ch, &bytes.Buffer{})
	l.retryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, &recordingHandler{}) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
