// token выпускает и проверяет подписанные JWT двух типов: access
// (короткоживущий, проверяется без обращения к хранилищу) и refresh
// (долгоживущий, его jti служит ключом записи в журнале сессий).
//
// Каждый токен несёт в заголовке kid ключа подписи, поэтому смена ключа
// не инвалидирует уже выданные токены, пока старый ключ остаётся в наборе.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"

	"github.com/pribylovaa/go-identity-service/internal/config"
)

// Type — тип токена, записывается в claim token_type.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	// ErrInvalidSignature — подпись не сходится, ключ неизвестен или алгоритм не тот.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired — срок действия токена истёк.
	ErrExpired = errors.New("token expired")
	// ErrWrongTokenType — предъявлен токен не того типа (access вместо refresh и наоборот).
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrMalformed — токен не разбирается или в нём нет обязательных claims.
	ErrMalformed = errors.New("malformed token")
)

// Claims — полезная нагрузка токенов сервиса.
type Claims struct {
	TokenType Type `json:"token_type"`
	jwt.RegisteredClaims
}

// Issued — результат выпуска токена.
type Issued struct {
	Token     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Manager выпускает и проверяет токены. Безопасен для конкурентного использования.
type Manager struct {
	keys       *Keyset
	issuer     string
	audience   []string
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
	now        func() time.Time
}

// Option настраивает Manager.
type Option func(*Manager)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New создаёт Manager из конфигурации.
func New(cfg config.AuthConfig, opts ...Option) (*Manager, error) {
	const op = "token.New"

	keys, err := NewKeyset(cfg.Keys, cfg.ActiveKeyID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("%s: token ttl must be positive", op)
	}

	m := &Manager{
		keys:       keys,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		leeway:     cfg.Leeway,
		now:        time.Now,
	}

	for _, o := range opts {
		o(m)
	}

	return m, nil
}

// IssueAccessToken выпускает access-токен для subject.
func (m *Manager) IssueAccessToken(subject string) (*Issued, error) {
	return m.issue(subject, TypeAccess, m.accessTTL)
}

// IssueRefreshToken выпускает refresh-токен для subject; Issued.ID —
// идентификатор токена для журнала сессий.
func (m *Manager) IssueRefreshToken(subject string) (*Issued, error) {
	return m.issue(subject, TypeRefresh, m.refreshTTL)
}

func (m *Manager) issue(subject string, typ Type, ttl time.Duration) (*Issued, error) {
	const op = "token.Manager.issue"

	if subject == "" {
		return nil, fmt.Errorf("%s: empty subject", op)
	}

	// Точность JWT — секунды; усечём, чтобы Issued совпадал с claims.
	now := m.now().UTC().Truncate(time.Second)
	exp := now.Add(ttl)
	id := ksuid.New().String()

	claims := Claims{
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   subject,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings(m.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	kid, secret := m.keys.Active()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = kid

	signed, err := t.SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Issued{Token: signed, ID: id, IssuedAt: now, ExpiresAt: exp}, nil
}

// Verify проверяет подпись, срок, издателя/аудиторию и тип токена.
// Ошибки сводятся к ErrMalformed, ErrInvalidSignature, ErrExpired и ErrWrongTokenType.
func (m *Manager) Verify(tokenStr string, want Type) (*Claims, error) {
	const op = "token.Manager.Verify"

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.leeway),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}

	if m.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(m.issuer))
	}

	if len(m.audience) > 0 {
		parserOpts = append(parserOpts, jwt.WithAudience(m.audience...))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, m.keyFunc, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	if claims.TokenType != want {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongTokenType)
	}

	return claims, nil
}

func (m *Manager) keyFunc(t *jwt.Token) (any, error) {
	kid, ok := t.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, ErrUnknownKey
	}

	return m.keys.Lookup(kid)
}

// classify сводит ошибки jwt к таксономии пакета.
// Подпись проверяется раньше claims, поэтому истёкший токен с чужой
// подписью даст ErrInvalidSignature, а не ErrExpired.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
