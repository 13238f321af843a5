package integration

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/course-service/internal/apperror"
	"github.com/RubachokBoss/course-service/internal/models"
)

// FileVerifier checks that attached file metadata refers to an object that
// was actually uploaded. Files hosted elsewhere are accepted as given.
type FileVerifier interface {
	Verify(ctx context.Context, files ...models.File) error
}

type minioVerifier struct {
	client   *minio.Client
	endpoint string
	bucket   string
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewMinIOVerifier(endpoint, accessKey, secretKey, bucket, region string, useSSL bool, timeout time.Duration, logger zerolog.Logger) (FileVerifier, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	logger.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Bool("ssl", useSSL).
		Msg("MinIO file verifier ready")

	return &minioVerifier{
		client:   client,
		endpoint: endpoint,
		bucket:   bucket,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

func (v *minioVerifier) Verify(ctx context.Context, files ...models.File) error {
	for _, f := range files {
		key, ok := v.objectKey(f.URL)
		if !ok {
			continue
		}

		statCtx, cancel := context.WithTimeout(ctx, v.timeout)
		_, err := v.client.StatObject(statCtx, v.bucket, key, minio.StatObjectOptions{})
		cancel()
		if err == nil {
			continue
		}

		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return apperror.Field("files", fmt.Sprintf("file %q has not been uploaded", f.Name))
		}

		v.logger.Error().Err(err).
			Str("bucket", v.bucket).
			Str("object", key).
			Msg("Failed to stat object")
		return apperror.Internal("failed to verify file", err)
	}
	return nil
}

// objectKey extracts the object key from a path-style URL
// (scheme://endpoint/bucket/key) that points into the configured bucket.
func (v *minioVerifier) objectKey(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || !strings.EqualFold(u.Host, v.endpoint) {
		return "", false
	}
	prefix := "/" + v.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, prefix)
	return key, key != ""
}

type noopVerifier struct{}

// NewNoopVerifier accepts every file. Used when storage is disabled.
func NewNoopVerifier() FileVerifier {
	return noopVerifier{}
}

func (noopVerifier) Verify(context.Context, ...models.File) error { return nil }
