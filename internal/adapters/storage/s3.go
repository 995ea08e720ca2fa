package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"campusconnect/internal/domain"
)

// S3Config configures an S3 or S3-compatible (R2, MinIO) bucket for posters.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// Endpoint overrides the AWS endpoint for S3-compatible stores; path-style addressing is used with it.
	Endpoint string
	// PublicURL is the base URL objects are served from. Defaults to the bucket's virtual-hosted URL.
	PublicURL string
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Storage struct {
	client    s3API
	bucket    string
	publicURL string
}

// NewS3Storage returns an ObjectStorage backed by S3.
func NewS3Storage(cfg S3Config) domain.ObjectStorage {
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return newS3Storage(client, cfg.Bucket, publicURL)
}

func newS3Storage(client s3API, bucket, publicURL string) *s3Storage {
	return &s3Storage{client: client, bucket: bucket, publicURL: publicURL}
}

func (s *s3Storage) Put(ctx context.Context, key, contentType string, size int64, body io.Reader) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

type disabledStorage struct{}

// NewDisabledStorage returns an ObjectStorage that rejects uploads with domain.ErrUnavailable.
func NewDisabledStorage() domain.ObjectStorage {
	return disabledStorage{}
}

func (disabledStorage) Put(context.Context, string, string, int64, io.Reader) (string, error) {
	return "", fmt.Errorf("%w: poster storage is not configured", domain.ErrUnavailable)
}
