package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	storageTimestampLayout = "20060102_150405"
)

// StorageService persists uploaded originals under
// <username>/<YYYYmmdd_HHMMSS>_<filename> and returns the stored location.
type StorageService interface {
	Save(ctx context.Context, username, filename string, data []byte) (string, error)
	Delete(ctx context.Context, location string) error
	EnsureReady(ctx context.Context) error
}

// ObjectKey builds the storage key for one upload. Path components of both
// inputs are stripped so a caller cannot escape its user prefix.
func ObjectKey(username, filename string, now time.Time) string {
	return path.Join(safeComponent(username), fmt.Sprintf("%s_%s", now.Format(storageTimestampLayout), safeComponent(filename)))
}

func safeComponent(s string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(strings.TrimSpace(s))
	if s == "." || s == "/" || s == ".." || s == "" {
		return "unknown"
	}
	return s
}

type localStorage struct {
	uploadPath string
	now        func() time.Time
}

func NewLocalStorage(uploadPath string) StorageService {
	return &localStorage{uploadPath: uploadPath, now: time.Now}
}

func (s *localStorage) EnsureReady(ctx context.Context) error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *localStorage) Save(ctx context.Context, username, filename string, data []byte) (string, error) {
	filePath := filepath.Join(s.uploadPath, filepath.FromSlash(ObjectKey(username, filename, s.now())))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create user directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *localStorage) Delete(ctx context.Context, location string) error {
	if err := os.Remove(location); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// S3API is the subset of *s3.Client the object store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type S3Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// NewS3Client builds a client for AWS or any S3-compatible endpoint.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

type s3Storage struct {
	client S3API
	bucket string
	now    func() time.Time
	logger *zap.Logger
}

func NewS3Storage(client S3API, bucket string, log *zap.Logger) StorageService {
	return &s3Storage{
		client: client,
		bucket: bucket,
		now:    time.Now,
		logger: logger.OrNop(log),
	}
}

func (s *s3Storage) EnsureReady(ctx context.Context) error {
	if s.bucket == "" {
		return errors.New("s3 bucket is not configured")
	}
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("failed to reach bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *s3Storage) Save(ctx context.Context, username, filename string, data []byte) (string, error) {
	key := ObjectKey(username, filename, s.now())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Debug("stored upload", zap.String("bucket", s.bucket), zap.String("key", key))
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *s3Storage) Delete(ctx context.Context, location string) error {
	key := strings.TrimPrefix(location, fmt.Sprintf("s3://%s/", s.bucket))

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
