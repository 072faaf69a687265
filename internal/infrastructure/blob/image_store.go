// Package blob stores event images in Google Cloud Storage.
package blob

import (
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/velizario/gemini-children-events-be/pkg/helpers"
)

type GCSImageStore struct {
	client *storage.Client
	bucket string
}

func NewGCSImageStore(client *storage.Client, bucket string) *GCSImageStore {
	return &GCSImageStore{client: client, bucket: bucket}
}

// PutEventImage uploads r and returns its public URL.
func (s *GCSImageStore) PutEventImage(ctx context.Context, eventID, filename, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, ObjectPath(eventID, filename), contentType, r)
}

// DeleteEventImage removes an image previously returned by PutEventImage.
// URLs that do not point into the bucket are ignored.
func (s *GCSImageStore) DeleteEventImage(ctx context.Context, url string) error {
	obj, ok := helpers.ObjectFromURL(s.bucket, url)
	if !ok {
		return nil
	}
	return helpers.DeleteObject(ctx, s.client, s.bucket, obj)
}

// ObjectPath names a fresh object under events/<eventID>/ keeping the file extension.
func ObjectPath(eventID, filename string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(filename, `\`, "/")))
	return path.Join("events", eventID, uuid.NewString()+ext)
}
