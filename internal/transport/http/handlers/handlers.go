// handlers — тонкий HTTP-слой над service.Service: разбор JSON,
// вызов операции, маппинг ошибок через errors.WriteError.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/models"
	apierrors "github.com/pribylovaa/go-identity-service/internal/transport/http/errors"
)

// maxJSONBody — предел тела JSON-запросов.
const maxJSONBody = 64 << 10

// defaultMaxPhotoBytes используется, если Options.MaxPhotoBytes не задан.
const defaultMaxPhotoBytes = 5 << 20

// Service — операции identity-сервиса, нужные HTTP-слою.
type Service interface {
	Register(ctx context.Context, identifier, password string) (uuid.UUID, error)
	Login(ctx context.Context, identifier, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, subject uuid.UUID) (int64, error)
	ChangePassword(ctx context.Context, subject uuid.UUID, current, next string) error
	Profile(ctx context.Context, subject uuid.UUID) (*models.Profile, error)
	UploadPhoto(ctx context.Context, subject uuid.UUID, contentType string, data []byte) (string, error)
	Photo(ctx context.Context, subject uuid.UUID) ([]byte, string, error)
	VerifyAccessToken(ctx context.Context, token string) (uuid.UUID, error)
}

// Options — параметры обработчиков.
type Options struct {
	MaxPhotoBytes int64
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc           Service
	maxPhotoBytes int64
}

func New(svc Service, opts Options) *Handlers {
	if opts.MaxPhotoBytes <= 0 {
		opts.MaxPhotoBytes = defaultMaxPhotoBytes
	}

	return &Handlers{svc: svc, maxPhotoBytes: opts.MaxPhotoBytes}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля
// и мусор после объекта.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		return apierrors.ErrBadRequest
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return apierrors.ErrBadRequest
	}

	return nil
}
