package enrichment

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedKey is returned for object keys that are not owner/upload/filename.
var ErrMalformedKey = errors.New("malformed object key")

// ObjectKey is the storage key contract between the upload broker and the
// file pipeline: {userId}/{uploadId}/{filename}.
type ObjectKey struct {
	UserID   string
	UploadID string
	Filename string
}

// String joins the three segments.
func (k ObjectKey) String() string {
	return k.UserID + "/" + k.UploadID + "/" + k.Filename
}

// ParseObjectKey decodes a key as delivered by storage events. Keys arrive
// form-encoded, so "+" becomes a space.
func ParseObjectKey(raw string) (ObjectKey, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return ObjectKey{}, fmt.Errorf("%w: %q: %v", ErrMalformedKey, raw, err)
	}

	parts := strings.Split(decoded, "/")
	if len(parts) != 3 {
		return ObjectKey{}, fmt.Errorf("%w: %q has %d segments", ErrMalformedKey, decoded, len(parts))
	}
	for _, p := range parts {
		if p == "" {
			return ObjectKey{}, fmt.Errorf("%w: %q has an empty segment", ErrMalformedKey, decoded)
		}
	}
	return ObjectKey{UserID: parts[0], UploadID: parts[1], Filename: parts[2]}, nil
}
