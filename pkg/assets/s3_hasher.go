package assets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Hasher resolves ref as "bucket/key" (no s3:// scheme) and hashes the
// object body, for recipe packages whose asset bundle lives in S3-compatible
// object storage at publish time.
type S3Hasher struct {
	client *s3.Client
}

type S3HasherConfig struct {
	Region   string
	Endpoint string // optional, for MinIO/LocalStack
}

func NewS3Hasher(ctx context.Context, cfg S3HasherConfig) (*S3Hasher, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Hasher{client: client}, nil
}

// Hash expects ref shaped "bucket/key".
func (h *S3Hasher) Hash(ctx context.Context, ref string) (string, error) {
	bucket, key, err := splitBucketKey(ref)
	if err != nil {
		return "", err
	}
	out, err := h.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("s3 get %s: %w", ref, err)
	}
	defer out.Body.Close()
	return streamHash(out.Body)
}

func splitBucketKey(ref string) (bucket, key string, err error) {
	for i, c := range ref {
		if c == '/' {
			return ref[:i], ref[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("asset ref %q missing bucket/key separator", ref)
}
