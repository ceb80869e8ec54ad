package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/metrics"
	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/pkg/log"
	"github.com/pribylovaa/go-identity-service/internal/pkg/redact"
	"github.com/pribylovaa/go-identity-service/internal/pkg/reqmeta"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

// maxPasswordBytes — предел bcrypt; держим его и для argon2id, чтобы
// смена алгоритма не меняла политику.
const maxPasswordBytes = 72

var identifierRe = regexp.MustCompile(`^[0-9A-Za-z-]{4,20}$`)

// Register создаёт учётную запись. Идентификатор нормализуется только
// обрезкой пробелов, регистр значим.
func (s *Service) Register(ctx context.Context, identifier, password string) (uuid.UUID, error) {
	const op = "service.identity.Register"

	norm, err := normalizeIdentifier(identifier)
	if err != nil {
		s.metrics.Registration(metrics.ResultInvalid)
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(password); err != nil {
		s.metrics.Registration(metrics.ResultInvalid)
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, salt, err := s.hasher.Hash(password)
	if err != nil {
		s.metrics.Registration(metrics.ResultError)
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock()
	ident := &models.Identity{
		ID:           uuid.New(),
		Identifier:   norm,
		PasswordHash: hash,
		PasswordSalt: salt,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Уникальность проверяет само хранилище (UNIQUE), без предварительного
	// чтения: так два параллельных Register не создадут дубль.
	if err := s.storage.CreateIdentity(ctx, ident); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.metrics.Registration(metrics.ResultDuplicate)
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrDuplicateIdentity)
		}

		s.metrics.Registration(metrics.ResultError)
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Registration(metrics.ResultSuccess)
	s.audit(ctx, &ident.ID, models.AuditRegister, nil)

	log.From(ctx).Info("identity_registered",
		slog.String("op", op),
		slog.String("identifier", redact.Identifier(norm)),
		slog.String("identity_id", ident.ID.String()),
	)

	return ident.ID, nil
}

// Login проверяет пароль с учётом блокировки и выдаёт пару токенов.
//
// Неизвестный идентификатор и неверный пароль дают одинаковый
// ErrInvalidCredentials; для неизвестного идентификатора всё равно
// выполняется проверка по фиктивному хэшу. Действующая блокировка
// отвечает ErrAccountLocked без обращения к хэшеру.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.TokenPair, error) {
	const op = "service.identity.Login"

	norm, err := normalizeIdentifier(identifier)
	if err != nil || password == "" {
		s.burnVerify(password)
		s.metrics.Login(metrics.ResultInvalidCredentials)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	ident, err := s.storage.IdentityByIdentifier(ctx, norm)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.burnVerify(password)
			s.metrics.Login(metrics.ResultInvalidCredentials)
			s.audit(ctx, nil, models.AuditLoginFailed, map[string]any{"reason": "unknown_identifier"})
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		s.metrics.Login(metrics.ResultError)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock()

	ident, err = s.guard.admit(ctx, ident, now)
	if err != nil {
		if errors.Is(err, ErrAccountLocked) {
			s.metrics.Login(metrics.ResultLocked)
		} else {
			s.metrics.Login(metrics.ResultError)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.hasher.Verify(password, ident.PasswordHash, ident.PasswordSalt) {
		return nil, fmt.Errorf("%s: %w", op, s.loginFailed(ctx, ident, now))
	}

	if _, err := s.guard.recordSuccess(ctx, ident.Identifier, now); err != nil {
		if errors.Is(err, ErrAccountLocked) {
			s.metrics.Login(metrics.ResultLocked)
		} else {
			s.metrics.Login(metrics.ResultError)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issuePair(ctx, ident.ID)
	if err != nil {
		s.metrics.Login(metrics.ResultError)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.Login(metrics.ResultSuccess)
	s.audit(ctx, &ident.ID, models.AuditLogin, nil)

	log.From(ctx).Info("login_succeeded",
		slog.String("op", op),
		slog.String("identity_id", ident.ID.String()),
	)

	return pair, nil
}

// loginFailed учитывает неудачу и всегда возвращает ErrInvalidCredentials,
// даже если эта попытка привела к блокировке: порог не раскрывается.
func (s *Service) loginFailed(ctx context.Context, ident *models.Identity, now time.Time) error {
	const op = "service.identity.loginFailed"

	locked, err := s.guard.recordFailure(ctx, ident.Identifier, now)
	if err != nil {
		s.metrics.Login(metrics.ResultError)
		return err
	}

	s.metrics.Login(metrics.ResultInvalidCredentials)
	s.audit(ctx, &ident.ID, models.AuditLoginFailed, map[string]any{"reason": "wrong_password"})

	if locked {
		s.metrics.Lockout()
		s.audit(ctx, &ident.ID, models.AuditAccountLocked, map[string]any{
			"locked_for": s.guard.policy.Duration.String(),
		})

		log.From(ctx).Warn("account_locked",
			slog.String("op", op),
			slog.String("identity_id", ident.ID.String()),
		)
	}

	return ErrInvalidCredentials
}

// burnVerify тратит столько же CPU, сколько настоящая проверка пароля.
func (s *Service) burnVerify(password string) {
	if s.dummyHash == nil {
		return
	}

	_ = s.hasher.Verify(password, s.dummyHash, s.dummySalt)
}

// Profile возвращает публичное представление учётной записи.
func (s *Service) Profile(ctx context.Context, subject uuid.UUID) (*models.Profile, error) {
	const op = "service.identity.Profile"

	ident, err := s.storage.IdentityByID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return models.ProfileOf(ident), nil
}

// ChangePassword отзывает все сессии субъекта и меняет пароль.
// Неверный текущий пароль не увеличивает счётчик неудач входа: вызов
// уже аутентифицирован access-токеном.
func (s *Service) ChangePassword(ctx context.Context, subject uuid.UUID, current, next string) error {
	const op = "service.identity.ChangePassword"

	if err := validatePassword(next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ident, err := s.storage.IdentityByID(ctx, subject)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	if !s.hasher.Verify(current, ident.PasswordHash, ident.PasswordSalt) {
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	hash, salt, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Сначала отзыв: если он не удался, старый пароль остаётся в силе и
	// повторный вызов возможен. Отзыв без смены пароля безвреден.
	n, err := s.sessions.RevokeAllForSubject(ctx, subject)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SetPassword(ctx, ident.Identifier, hash, salt, s.clock()); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	s.audit(ctx, &subject, models.AuditPasswordChange, map[string]any{"revoked_sessions": n})

	log.From(ctx).Info("password_changed",
		slog.String("op", op),
		slog.String("identity_id", subject.String()),
		slog.Int64("revoked_sessions", n),
	)

	return nil
}

// Unlock — административный переход locked -> active.
func (s *Service) Unlock(ctx context.Context, identifier string) error {
	const op = "service.identity.Unlock"

	norm, err := normalizeIdentifier(identifier)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ident, err := s.storage.IdentityByIdentifier(ctx, norm)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	if err := s.storage.Unlock(ctx, norm, s.clock()); err != nil {
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	s.audit(ctx, &ident.ID, models.AuditUnlock, nil)

	log.From(ctx).Info("identity_unlocked",
		slog.String("op", op),
		slog.String("identifier", redact.Identifier(norm)),
	)

	return nil
}

// normalizeIdentifier обрезает пробелы и проверяет формат.
func normalizeIdentifier(raw string) (string, error) {
	const op = "service.identity.normalizeIdentifier"

	id := strings.TrimSpace(raw)
	if !identifierRe.MatchString(id) {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidIdentifier)
	}

	return id, nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика: длина >= 8 рун и <= 72 байт, хотя бы одна строчная, заглавная,
// цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.identity.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len(pw) > maxPasswordBytes {
		return fmt.Errorf("%s: %w", op, ErrPasswordTooLong)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}

// clientMeta — сведения о клиенте текущего запроса (пустые вне HTTP).
func clientMeta(ctx context.Context) models.ClientMeta {
	return reqmeta.From(ctx)
}
