// minio реализует storage.PhotoStorage поверх MinIO.
// Фотографии профиля загружаются через сервис (не presigned), поэтому
// адаптер только кладёт и читает объекты и собирает их публичный URL.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/go-identity-service/internal/config"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

// PhotoStorage — адаптер MinIO для фотографий профиля.
type PhotoStorage struct {
	cfg    config.PhotosConfig
	client *mclient.Client
}

// New создаёт клиент MinIO. Endpoint может быть со схемой или без неё:
// схема определяет Secure. Отсутствие бакета считается ошибкой конфигурации.
func New(ctx context.Context, cfg config.PhotosConfig) (*PhotoStorage, error) {
	const op = "storage.minio.New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, storage.ErrUnavailable, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &PhotoStorage{cfg: cfg, client: client}, nil
}

// PutPhoto загружает объект и возвращает его URL.
func (s *PhotoStorage) PutPhoto(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	const op = "storage.minio.PutPhoto"

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key,
		bytes.NewReader(data), int64(len(data)),
		mclient.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.objectURL(key), nil
}

// GetPhoto скачивает объект целиком.
func (s *PhotoStorage) GetPhoto(ctx context.Context, key string) ([]byte, string, error) {
	const op = "storage.minio.GetPhoto"

	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, key, mclient.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, mapErr(err))
	}
	defer obj.Close()

	// GetObject ленивый: отсутствие объекта всплывает на Stat/Read.
	info, err := obj.Stat()
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, mapErr(err))
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, mapErr(err))
	}

	return data, info.ContentType, nil
}

// objectURL — PublicBaseURL/key, если он задан, иначе адрес объекта на самом MinIO.
func (s *PhotoStorage) objectURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}

	u := *s.client.EndpointURL()
	u.Path = "/" + s.cfg.Bucket + "/" + key

	return u.String()
}

func mapErr(err error) error {
	resp := mclient.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
		return storage.ErrNotFound
	}

	return err
}

// Проверка выполнения контракта.
var _ storage.PhotoStorage = (*PhotoStorage)(nil)
