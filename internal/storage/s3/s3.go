// s3 реализует storage.PhotoStorage поверх AWS SDK v2. Работает с любым
// S3-совместимым хранилищем; для MinIO нужен path-style адресации.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pribylovaa/go-identity-service/internal/config"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

type PhotoStorage struct {
	cfg    config.PhotosConfig
	client *s3.Client
}

// New собирает клиент из статических ключей и проверяет доступ к бакету (HeadBucket).
// Пустой Endpoint означает стандартный AWS endpoint региона.
func New(ctx context.Context, cfg config.PhotosConfig) (*PhotoStorage, error) {
	const op = "storage.s3.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("%s: bucket %q: %w", op, cfg.Bucket, err)
	}

	return &PhotoStorage{cfg: cfg, client: client}, nil
}

// PutPhoto загружает объект и возвращает его URL.
func (s *PhotoStorage) PutPhoto(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	const op = "storage.s3.PutPhoto"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return objectURL(s.cfg, key), nil
}

// GetPhoto скачивает объект; storage.ErrNotFound, если ключа нет.
func (s *PhotoStorage) GetPhoto(ctx context.Context, key string) ([]byte, string, error) {
	const op = "storage.s3.GetPhoto"

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return data, aws.ToString(out.ContentType), nil
}

// objectURL — PublicBaseURL/key, иначе path-style адрес на endpoint,
// иначе virtual-hosted адрес AWS.
func objectURL(cfg config.PhotosConfig, key string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/") + "/" + key
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", cfg.Bucket, cfg.Region, key)
	}
}

var _ storage.PhotoStorage = (*PhotoStorage)(nil)
