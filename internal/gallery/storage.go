package gallery

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Storage holds the uploaded image bytes and hands back a public URL.
type Storage interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (url, storageName string, err error)
	Remove(ctx context.Context, storageName string) error
}

// S3API is the subset of the S3 client used by S3Storage.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage uploads gallery images to an S3 bucket served from a public base URL.
type S3Storage struct {
	bucket  string
	baseURL string
	client  S3API
}

// NewS3Storage creates an S3Storage. baseURL is the public origin the bucket is
// served from, without a trailing slash.
func NewS3Storage(client S3API, bucket, baseURL string) *S3Storage {
	return &S3Storage{
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *S3Storage) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, string, error) {
	ext := path.Ext(filename)
	storageName := fmt.Sprintf("gallery/%d-%s%s", time.Now().UTC().Unix(), uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(storageName),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("gallery: s3 put %s: %w", storageName, err)
	}
	return s.baseURL + "/" + storageName, storageName, nil
}

func (s *S3Storage) Remove(ctx context.Context, storageName string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageName),
	})
	if err != nil {
		return fmt.Errorf("gallery: s3 delete %s: %w", storageName, err)
	}
	return nil
}
