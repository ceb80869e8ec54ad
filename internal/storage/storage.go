// storage описывает контракты хранилищ сервиса: учётные записи,
// журнал сессий (refresh-токенов), журнал аудита и объектное хранилище фотографий.
//
// Реализации: postgres (основная), redis (альтернативный журнал сессий),
// memory (локальная разработка и тесты), minio/s3 (фотографии).
package storage

//go:generate mockgen -source=storage.go -destination=../mocks/mock_storage.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (учётная запись/сессия/объект).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (идентификатор/сессия).
	ErrAlreadyExists = errors.New("already exists")
	// ErrExpired — сессия просрочена.
	ErrExpired = errors.New("expired")
	// ErrRevoked — сессия отозвана.
	ErrRevoked = errors.New("revoked")
	// ErrLocked — учётная запись заблокирована и срок блокировки не истёк.
	ErrLocked = errors.New("locked")
	// ErrUnavailable — хранилище недоступно (сеть, пул закрыт и т.п.).
	ErrUnavailable = errors.New("storage unavailable")
)

// IdentityStorage выполняет операции над учётными записями.
//
// Все мутирующие операции над счётчиком неудач и статусом выполняются
// атомарно в пределах одной записи (условный UPDATE / блокировка строки).
type IdentityStorage interface {
	// CreateIdentity создаёт учётную запись; ErrAlreadyExists при занятом идентификаторе.
	CreateIdentity(ctx context.Context, identity *models.Identity) error
	// IdentityByIdentifier находит учётную запись по естественному идентификатору.
	IdentityByIdentifier(ctx context.Context, identifier string) (*models.Identity, error)
	// IdentityByID находит учётную запись по ID.
	IdentityByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	// RecordFailedAttempt увеличивает счётчик неудач активной записи и,
	// при достижении порога, переводит её в locked до now+policy.Duration.
	// Для уже заблокированной записи ничего не меняет и возвращает ErrLocked,
	// так что переход в locked виден ровно одному вызову.
	RecordFailedAttempt(ctx context.Context, identifier string, policy models.LockoutPolicy, now time.Time) (*models.Identity, error)
	// RecordSuccess обнуляет счётчик, снимает блокировку и ставит last_login_at.
	// ErrLocked, если запись заблокирована и срок ещё не истёк.
	RecordSuccess(ctx context.Context, identifier string, now time.Time) (*models.Identity, error)
	// ExpireLock переводит запись locked -> active, если срок блокировки истёк к now.
	// Возвращает актуальное состояние записи в любом случае.
	ExpireLock(ctx context.Context, identifier string, now time.Time) (*models.Identity, error)
	// SetPassword заменяет хэш и соль и сбрасывает состояние неудач.
	SetPassword(ctx context.Context, identifier string, hash, salt []byte, now time.Time) error
	// Unlock безусловно переводит запись в active.
	Unlock(ctx context.Context, identifier string, now time.Time) error
	// SetPhoto сохраняет ключ и URL фотографии профиля.
	SetPhoto(ctx context.Context, id uuid.UUID, key, url string, now time.Time) error
}

// AuditStorage пишет журнал аудита.
type AuditStorage interface {
	SaveAuditEvent(ctx context.Context, e *models.AuditEvent) error
}

// SessionStorage — журнал сессий (refresh-токенов).
type SessionStorage interface {
	// CreateSession сохраняет новую неотозванную сессию.
	CreateSession(ctx context.Context, s *models.Session) error
	// SessionByID возвращает сессию по идентификатору токена.
	SessionByID(ctx context.Context, id string) (*models.Session, error)
	// RevokeSession помечает сессию отозванной; идемпотентна. ErrNotFound, если сессии нет.
	RevokeSession(ctx context.Context, id string) error
	// RevokeAllForSubject отзывает все сессии субъекта и возвращает их число.
	RevokeAllForSubject(ctx context.Context, subject uuid.UUID) (int64, error)
	// RotateSession атомарно проверяет старую сессию, отзывает её и создаёт next.
	// ErrNotFound/ErrRevoked/ErrExpired — старая сессия непригодна, ничего не изменено.
	RotateSession(ctx context.Context, oldID string, next *models.Session, now time.Time) error
	// DeleteExpiredSessions удаляет сессии, истёкшие к now.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// PhotoStorage — объектное хранилище фотографий профиля.
type PhotoStorage interface {
	// PutPhoto загружает объект и возвращает его URL.
	PutPhoto(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// GetPhoto скачивает объект; ErrNotFound, если его нет.
	GetPhoto(ctx context.Context, key string) ([]byte, string, error)
}

// Storage — основное хранилище: учётные записи и аудит.
type Storage interface {
	IdentityStorage
	AuditStorage
	Close()
}
