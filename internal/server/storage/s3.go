// Package storage provides the binary object store used for resource files.
// The implementation targets any S3-compatible backend (AWS S3, MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v4"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
	sc "github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
)

// ObjectStore is the binary store consumed by the resource service. Keys
// are namespaced by resource id (resources/<id>/<filename>).
type ObjectStore interface {
	// Put stores the payload under key and returns its public locator.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object under key. Deleting a missing key is not
	// an error at this level.
	Delete(ctx context.Context, key string) error
}

// Seams for testing the AWS client plumbing without network access.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3ObjectStore implements ObjectStore against an S3-compatible endpoint.
// Transient failures are retried with exponential backoff before the error
// is surfaced as common.ErrStorage.
type S3ObjectStore struct {
	config *sc.Config
	client *s3.Client
}

// NewS3ObjectStore builds an object store from server configuration.
func NewS3ObjectStore(cfg *sc.Config) *S3ObjectStore {
	return &S3ObjectStore{config: cfg}
}

// ObjectKey builds the namespaced storage key for a resource file.
func ObjectKey(resourceID, fileName string) string {
	return fmt.Sprintf("resources/%s/%s", resourceID, fileName)
}

func (s *S3ObjectStore) getClient(ctx context.Context) (*s3.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("%w: load aws config: %v", common.ErrStorage, err)
	}
	s.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return s.client, nil
}

func (s *S3ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	op := func() error {
		_, err := putObject(client, ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.config.S3Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}
	if err := backoff.Retry(op, s.retryPolicy(ctx)); err != nil {
		return "", fmt.Errorf("%w: put %s: %v", common.ErrStorage, key, err)
	}
	return s.Locator(key), nil
}

func (s *S3ObjectStore) Delete(ctx context.Context, key string) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	op := func() error {
		_, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.config.S3Bucket),
			Key:    aws.String(key),
		})
		return err
	}
	if err := backoff.Retry(op, s.retryPolicy(ctx)); err != nil {
		return fmt.Errorf("%w: delete %s: %v", common.ErrStorage, key, err)
	}
	return nil
}

// Locator returns the public URL of a stored object.
func (s *S3ObjectStore) Locator(key string) string {
	return fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(s.config.S3BaseEndpoint, "/"), s.config.S3Bucket, key)
}

func (s *S3ObjectStore) retryPolicy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return backoff.WithContext(b, ctx)
}
