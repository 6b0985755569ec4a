package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSArchiver writes snapshots to a Google Cloud Storage bucket.
type GCSArchiver struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a GCS-backed archiver.
func NewGCS(client *storage.Client, bucket string) (*GCSArchiver, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &GCSArchiver{
		client: client,
		bucket: bucket,
	}, nil
}

// Archive uploads the markup snapshot for canonicalURL.
func (a *GCSArchiver) Archive(ctx context.Context, canonicalURL string, markup []byte) error {
	if len(markup) == 0 {
		return fmt.Errorf("empty markup for %s", canonicalURL)
	}
	writer := a.client.Bucket(a.bucket).Object(ObjectPath(canonicalURL)).NewWriter(ctx)
	writer.ContentType = "text/html; charset=utf-8"
	writer.Metadata = map[string]string{"canonical-url": canonicalURL}
	if _, err := io.Copy(writer, bytes.NewReader(markup)); err != nil {
		closeErr := writer.Close()
		if closeErr != nil {
			return fmt.Errorf("copy object: %w (close writer: %v)", err, closeErr)
		}
		return fmt.Errorf("copy object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}
