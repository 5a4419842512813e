package images

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultMIME = "image/jpeg"

// S3Source fetches photo bytes from an S3 bucket. Photo references are
// object keys within the configured bucket.
type S3Source struct {
	client *s3.Client
	bucket string
}

// NewS3Source creates an S3-backed image source using the default AWS
// credential chain.
func NewS3Source(ctx context.Context, bucket, region string) (*S3Source, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &S3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// Fetch downloads the object for ref and returns its bytes and media type.
func (s *S3Source) Fetch(ctx context.Context, ref string) (Image, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return Image{}, fmt.Errorf("fetching s3 object %s: %w", ref, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Image{}, fmt.Errorf("reading s3 object %s: %w", ref, err)
	}

	mimeType := ""
	if out.ContentType != nil {
		mimeType = *out.ContentType
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = GuessMIME(ref)
	}

	return Image{Data: data, MIME: mimeType}, nil
}

// GuessMIME derives an image media type from a reference's file extension.
// Unknown extensions default to JPEG, the common case for phone uploads.
func GuessMIME(ref string) string {
	ext := strings.ToLower(filepath.Ext(ref))
	if ext == "" {
		return defaultMIME
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "image/") {
		return t
	}
	return defaultMIME
}
