package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ObjectKey
		wantErr bool
	}{
		{name: "plain", raw: "u1/up1/photo.JPG", want: ObjectKey{"u1", "up1", "photo.JPG"}},
		{name: "plus is space", raw: "u1/up1/my+report.pdf", want: ObjectKey{"u1", "up1", "my report.pdf"}},
		{name: "percent encoded", raw: "u1/up1/caf%C3%A9%20menu.png", want: ObjectKey{"u1", "up1", "café menu.png"}},
		{name: "two segments", raw: "u1/photo.jpg", wantErr: true},
		{name: "four segments", raw: "u1/up1/dir/photo.jpg", wantErr: true},
		{name: "encoded slash adds a segment", raw: "u1/up1/a%2Fb.jpg", wantErr: true},
		{name: "empty segment", raw: "u1//photo.jpg", wantErr: true},
		{name: "bad escape", raw: "u1/up1/%zz", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseObjectKey(tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrMalformedKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObjectKey_String(t *testing.T) {
	assert.Equal(t, "u1/up1/a b.png", ObjectKey{UserID: "u1", UploadID: "up1", Filename: "a b.png"}.String())
}
