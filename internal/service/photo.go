package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"slices"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/pkg/log"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

var photoExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadPhoto сохраняет фотографию профиля и возвращает её URL.
// Заявленный Content-Type должен входить в allow-list и совпадать
// с типом, определённым по содержимому.
func (s *Service) UploadPhoto(ctx context.Context, subject uuid.UUID, contentType string, data []byte) (string, error) {
	const op = "service.photo.UploadPhoto"

	if s.photos == nil {
		return "", fmt.Errorf("%s: %w", op, ErrPhotosDisabled)
	}

	ct, err := s.validatePhoto(contentType, data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.storage.IdentityByID(ctx, subject); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	// photos/<subject>/<uuid>.<ext>
	key := path.Join("photos", subject.String(), uuid.NewString()+photoExt[ct])

	url, err := s.photos.PutPhoto(ctx, key, data, ct)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SetPhoto(ctx, subject, key, url, s.clock()); err != nil {
		return "", fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	s.audit(ctx, &subject, models.AuditPhotoUpload, map[string]any{
		"key":  key,
		"size": len(data),
	})

	log.From(ctx).Info("photo_uploaded",
		slog.String("op", op),
		slog.String("identity_id", subject.String()),
		slog.Int("size", len(data)),
	)

	return url, nil
}

// Photo возвращает содержимое фотографии профиля и её Content-Type.
func (s *Service) Photo(ctx context.Context, subject uuid.UUID) ([]byte, string, error) {
	const op = "service.photo.Photo"

	if s.photos == nil {
		return nil, "", fmt.Errorf("%s: %w", op, ErrPhotosDisabled)
	}

	ident, err := s.storage.IdentityByID(ctx, subject)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	if ident.PhotoKey == "" {
		return nil, "", fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	data, ct, err := s.photos.GetPhoto(ctx, ident.PhotoKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	return data, ct, nil
}

func (s *Service) validatePhoto(contentType string, data []byte) (string, error) {
	if len(data) == 0 || int64(len(data)) > s.cfg.Photos.MaxSizeBytes {
		return "", ErrInvalidPhoto
	}

	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrInvalidPhoto
	}

	if !slices.Contains(s.cfg.Photos.AllowedContentTypes, ct) {
		return "", ErrInvalidPhoto
	}

	if _, ok := photoExt[ct]; !ok {
		return "", ErrInvalidPhoto
	}

	if sniffed := http.DetectContentType(data); sniffed != ct {
		return "", ErrInvalidPhoto
	}

	return ct, nil
}
