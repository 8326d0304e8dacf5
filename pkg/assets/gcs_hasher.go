//go:build gcp

package assets

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCSHasher resolves ref as "bucket/object" against Google Cloud Storage.
// Build-tagged like the teacher's own GCS artifact store, since the GCS SDK
// is a heavier, credentials-sensitive dependency most local installs never
// need.
type GCSHasher struct {
	client *storage.Client
}

func NewGCSHasher(ctx context.Context) (*GCSHasher, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSHasher{client: client}, nil
}

func (h *GCSHasher) Hash(ctx context.Context, ref string) (string, error) {
	bucket, object, err := splitBucketKey(ref)
	if err != nil {
		return "", err
	}
	r, err := h.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return "", fmt.Errorf("gcs get %s: %w", ref, err)
	}
	defer r.Close()
	return streamHash(r)
}
