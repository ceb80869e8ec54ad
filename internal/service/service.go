// service содержит бизнес-логику identity-сервиса: регистрацию,
// вход с учётом политики блокировки, выпуск и ротацию токенов,
// журнал сессий, смену пароля и фотографию профиля.
//
// Основные аспекты:
//   - Service не хранит состояние запросов; атомарность счётчика неудач
//     и ротации refresh-токена обеспечивают хранилища (условный UPDATE,
//     блокировка строки, Lua-скрипт).
//   - Ошибки ниже транспорт маппит на HTTP-коды.
//   - Пароли и токены не логируются, идентификаторы маскируются.
package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/pribylovaa/go-identity-service/internal/config"
	"github.com/pribylovaa/go-identity-service/internal/metrics"
	"github.com/pribylovaa/go-identity-service/internal/password"
	"github.com/pribylovaa/go-identity-service/internal/storage"
	"github.com/pribylovaa/go-identity-service/internal/token"
)

var (
	// ErrDuplicateIdentity — идентификатор уже зарегистрирован.
	// Транспорт: HTTP 409.
	ErrDuplicateIdentity = errors.New("identity already exists")

	// ErrNotFound — учётная запись или объект не найдены.
	// Транспорт: HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials — неверный пароль или неизвестный идентификатор.
	// Эти случаи намеренно неразличимы для вызывающего. Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked — вход временно запрещён после серии неудач.
	// Транспорт: HTTP 423.
	ErrAccountLocked = errors.New("account locked")

	// Ошибки проверки токенов. Транспорт: HTTP 401.
	ErrInvalidSignature = token.ErrInvalidSignature
	ErrTokenExpired     = token.ErrExpired
	ErrWrongTokenType   = token.ErrWrongTokenType
	ErrMalformedToken   = token.ErrMalformed

	// ErrSessionRevoked — refresh-токен отозван (logout, ротация) или его
	// сессия не найдена. Транспорт: HTTP 401.
	ErrSessionRevoked = errors.New("session revoked")

	// ErrSessionExpired — сессия refresh-токена истекла. Транспорт: HTTP 401.
	ErrSessionExpired = errors.New("session expired")

	// ErrStorageUnavailable — хранилище недоступно. Внутри сервиса не
	// ретраится, решение о повторе за вызывающим. Транспорт: HTTP 503.
	ErrStorageUnavailable = storage.ErrUnavailable

	// ErrInvalidIdentifier — идентификатор не проходит формат (4..20 символов
	// из латиницы, цифр и дефиса). Транспорт: HTTP 400.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrEmptyPassword — пароль пустой. Транспорт: HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")

	// ErrWeakPassword — пароль не удовлетворяет политике сложности.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrPasswordTooLong — пароль длиннее 72 байт (предел bcrypt).
	// Транспорт: HTTP 400.
	ErrPasswordTooLong = errors.New("password is too long")

	// ErrInvalidPhoto — недопустимый тип или размер фотографии.
	// Транспорт: HTTP 400.
	ErrInvalidPhoto = errors.New("invalid photo")

	// ErrPhotosDisabled — объектное хранилище не сконфигурировано.
	// Транспорт: HTTP 501.
	ErrPhotosDisabled = errors.New("photo storage is not configured")
)

// dummyPassword хэшируется один раз при старте: проверка по этому хэшу
// выравнивает время ответа для неизвестного идентификатора.
const dummyPassword = "dummy-password-for-timing"

// Service описывает бизнес-логику identity-сервиса.
type Service struct {
	storage  storage.Storage
	sessions storage.SessionStorage
	photos   storage.PhotoStorage // nil, если фото отключены
	hasher   password.Hasher
	tokens   *token.Manager
	guard    *accountGuard
	cfg      *config.Config
	metrics  *metrics.Metrics
	auditIDs *snowflake.Node
	now      func() time.Time

	dummyHash []byte
	dummySalt []byte
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPhotoStorage подключает объектное хранилище фотографий.
func WithPhotoStorage(p storage.PhotoStorage) Option {
	return func(s *Service) { s.photos = p }
}

// WithMetrics подключает метрики Prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditNode задаёт генератор snowflake-идентификаторов аудита.
func WithAuditNode(n *snowflake.Node) Option {
	return func(s *Service) {
		if n != nil {
			s.auditIDs = n
		}
	}
}

// New создаёт новый экземпляр Service. sessions может совпадать со storage
// (postgres/memory реализуют оба контракта) или быть отдельным (redis).
func New(
	st storage.Storage,
	sessions storage.SessionStorage,
	hasher password.Hasher,
	tokens *token.Manager,
	cfg *config.Config,
	opts ...Option,
) *Service {
	s := &Service{
		storage:  st,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		cfg:      cfg,
		now:      time.Now,
	}

	for _, o := range opts {
		o(s)
	}

	if s.auditIDs == nil {
		// Узел 0 не может вернуть ошибку: диапазон 0..1023.
		s.auditIDs, _ = snowflake.NewNode(0)
	}

	s.guard = &accountGuard{
		store:  st,
		policy: cfg.Lockout.Policy(),
	}

	h, salt, err := hasher.Hash(dummyPassword)
	if err != nil {
		slog.Default().Warn("dummy_hash_failed", slog.String("err", err.Error()))
	}
	s.dummyHash, s.dummySalt = h, salt

	return s
}

// clock — текущее время в UTC.
func (s *Service) clock() time.Time {
	return s.now().UTC()
}
