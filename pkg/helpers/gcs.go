package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const gcsPublicHost = "https://storage.googleapis.com/"

// NewGCSClient creates a Cloud Storage client. creds may be a path to a
// service account file or the JSON itself; empty means ADC.
func NewGCSClient(ctx context.Context, creds string) (*storage.Client, error) {
	creds = strings.TrimSpace(creds)
	switch {
	case creds == "":
		return storage.NewClient(ctx)
	case strings.HasPrefix(creds, "{"):
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(creds)))
	default:
		return storage.NewClient(ctx, option.WithCredentialsFile(creds))
	}
}

// UploadObject streams r into bucket/objectPath and returns the public URL.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath, contentType string, r io.Reader) (string, error) {
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"
	wc.ChunkSize = 0 // single request; uploads are capped well below the chunk size
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return PublicURL(bucket, objectPath), nil
}

// DeleteObject removes bucket/objectPath. A missing object is not an error.
func DeleteObject(ctx context.Context, client *storage.Client, bucket, objectPath string) error {
	err := client.Bucket(bucket).Object(objectPath).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s%s/%s", gcsPublicHost, bucket, objectPath)
}

// ObjectFromURL reverses PublicURL. It reports false for URLs outside bucket.
func ObjectFromURL(bucket, url string) (string, bool) {
	prefix := gcsPublicHost + bucket + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
