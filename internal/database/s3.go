package database

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/pageza/recipe-genius/backend/internal/model"
	"github.com/pageza/recipe-genius/backend/pkg/logger"
)

// S3API is the subset of the S3 client used by S3Slot
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Slot stores the slot as a JSON object in a bucket.
type S3Slot struct {
	client S3API
	bucket string
	key    string
	logger *zap.Logger
}

// NewS3Slot creates a slot stored at <key>.json in bucket
func NewS3Slot(client S3API, bucket, key string, l *zap.Logger) *S3Slot {
	return &S3Slot{client: client, bucket: bucket, key: key + ".json", logger: logger.OrNop(l)}
}

func (s *S3Slot) Load(ctx context.Context) ([]model.Recipe, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return []model.Recipe{}, nil
		}
		return nil, fmt.Errorf("failed to get saved recipes from S3: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read saved recipes object: %w", err)
	}
	return decodeSlot(s.logger, s.key, data), nil
}

func (s *S3Slot) Save(ctx context.Context, recipes []model.Recipe) error {
	data, err := encodeSlot(recipes)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload saved recipes to S3: %w", err)
	}
	return nil
}

func (s *S3Slot) Clear(ctx context.Context) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete saved recipes from S3: %w", err)
	}
	return nil
}
