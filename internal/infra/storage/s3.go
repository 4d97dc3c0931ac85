package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/syedukkashah/university-library/internal/core/port"
	"github.com/syedukkashah/university-library/internal/infra/config"
)

const presignExpiry = 15 * time.Minute

// S3CardStore persists uploaded identity documents in S3 (or a
// compatible API). Objects are private; reads go through presigned URLs.
type S3CardStore struct {
	client    *s3.Client
	uploader  *manager.Uploader
	presigner *s3.PresignClient
	bucket    string
	keyPrefix string
}

// NewS3CardStore builds the store from application config, loading AWS
// credentials from the default chain.
func NewS3CardStore(ctx context.Context, cfg config.StorageSettings) (*S3CardStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3CardStore{
		client:    client,
		uploader:  manager.NewUploader(client),
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		keyPrefix: strings.Trim(cfg.KeyPrefix, "/"),
	}, nil
}

// Upload stores the document under the provided key and returns the full
// object key. The bytes are never inspected.
func (s *S3CardStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	objectKey := key
	if s.keyPrefix != "" {
		objectKey = s.keyPrefix + "/" + strings.TrimPrefix(key, "/")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   body,
		ACL:    types.ObjectCannedACLPrivate,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectKey, err)
	}

	return objectKey, nil
}

// ObjectURL returns a short-lived presigned URL for the stored document.
func (s *S3CardStore) ObjectURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return req.URL, nil
}

var _ port.FileStorage = (*S3CardStore)(nil)
