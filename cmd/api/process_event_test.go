package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{"Records":[{"eventName":"s3:ObjectCreated:Put","s3":{"bucket":{"name":"notes"},"object":{"key":"u1/up1/a.png","size":7}}}]}`

func TestReadNotification(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		info, err := readNotification(strings.NewReader(samplePayload), nil)
		require.NoError(t, err)
		require.Len(t, info.Records, 1)
		assert.Equal(t, "u1/up1/a.png", info.Records[0].S3.Object.Key)
	})

	t.Run("dash means stdin", func(t *testing.T) {
		info, err := readNotification(strings.NewReader(samplePayload), []string{"-"})
		require.NoError(t, err)
		assert.Len(t, info.Records, 1)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(path, []byte(samplePayload), 0o600))

		info, err := readNotification(strings.NewReader(""), []string{path})
		require.NoError(t, err)
		assert.Equal(t, int64(7), info.Records[0].S3.Object.Size)
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := readNotification(strings.NewReader("{"), nil)
		assert.ErrorContains(t, err, "decode notification")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readNotification(nil, []string{filepath.Join(t.TempDir(), "nope.json")})
		assert.Error(t, err)
	})
}
