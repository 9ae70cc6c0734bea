package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"ethnicityfacts/domain/core"
	"ethnicityfacts/internal/errors"
)

// S3Config holds the bucket settings. Credentials fall back to the default
// AWS chain when no static key is given.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // for S3-compatible stores such as MinIO
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
}

// S3FileStorage implements FileStorage on a single S3 bucket
type S3FileStorage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3FileStorage creates an S3 backed storage. Extra client options are
// applied last.
func NewS3FileStorage(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3FileStorage, error) {
	if cfg.Bucket == "" {
		return nil, errors.ConfigInvalid("S3_BUCKET is required for s3 storage")
	}
	region := cfg.Region
	if region == "" {
		region = "eu-west-2"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.ExternalServiceError("s3", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})

	return &S3FileStorage{client: client, presign: s3.NewPresignClient(client), bucket: cfg.Bucket}, nil
}

func (s *S3FileStorage) Driver() string { return DriverS3 }

// Store uploads r under a new unique key. The body is buffered when it cannot
// seek, since PutObject needs a known length.
func (s *S3FileStorage) Store(ctx context.Context, filename string, r io.Reader, contentType string) (string, error) {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	key := uniqueKey(filename, time.Now())
	input := &s3.PutObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key), Body: body}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", errors.ExternalServiceError("s3", err)
	}
	return key, nil
}

func (s *S3FileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrObjectNotFound, key)
		}
		return nil, errors.ExternalServiceError("s3", err)
	}
	return out.Body, nil
}

func (s *S3FileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)}); err != nil {
		return errors.ExternalServiceError("s3", err)
	}
	return nil
}

func (s *S3FileStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, errors.ExternalServiceError("s3", err)
}

// PresignURL returns a time limited download link for a stored file
func (s *S3FileStorage) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	out, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)},
		func(po *s3.PresignOptions) { po.Expires = expiry })
	if err != nil {
		return "", errors.ExternalServiceError("s3", err)
	}
	return out.URL, nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if stderrors.As(err, &noKey) || stderrors.As(err, &notFound) {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "Not Found":
			return true
		}
	}
	return false
}
