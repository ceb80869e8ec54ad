package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/metrics"
	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/pkg/log"
	"github.com/pribylovaa/go-identity-service/internal/storage"
	"github.com/pribylovaa/go-identity-service/internal/token"
)

// Refresh обменивает refresh-токен на новую пару.
//
// Проверка сессии, её отзыв и создание новой выполняются хранилищем
// одной атомарной операцией (RotateSession), поэтому из двух параллельных
// вызовов с одним токеном успешен ровно один, второй получает
// ErrSessionRevoked. При любой ошибке старая сессия не меняется.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "service.tokens.Refresh"

	claims, err := s.tokens.Verify(refreshToken, token.TypeRefresh)
	if err != nil {
		s.metrics.Refresh(refreshResult(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		s.metrics.Refresh(metrics.ResultInvalid)
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}

	now := s.clock()

	access, refresh, err := s.mint(subject)
	if err != nil {
		s.metrics.Refresh(metrics.ResultError)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	next := newSession(ctx, subject, refresh)

	if err := s.sessions.RotateSession(ctx, claims.ID, next, now); err != nil {
		switch {
		case errors.Is(err, storage.ErrRevoked), errors.Is(err, storage.ErrNotFound):
			s.metrics.Refresh(metrics.ResultRevoked)
			log.From(ctx).Warn("refresh_token_reuse",
				slog.String("op", op),
				slog.String("identity_id", subject.String()),
				slog.String("session_id", claims.ID),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrSessionRevoked)
		case errors.Is(err, storage.ErrExpired):
			s.metrics.Refresh(metrics.ResultExpired)
			return nil, fmt.Errorf("%s: %w", op, ErrSessionExpired)
		default:
			s.metrics.Refresh(metrics.ResultError)
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.metrics.Refresh(metrics.ResultSuccess)
	s.audit(ctx, &subject, models.AuditRefresh, map[string]any{"session_id": next.ID})

	return pairOf(access, refresh), nil
}

// VerifyAccessToken проверяет access-токен без обращения к хранилищу
// и возвращает субъекта.
func (s *Service) VerifyAccessToken(ctx context.Context, accessToken string) (uuid.UUID, error) {
	const op = "service.tokens.VerifyAccessToken"

	claims, err := s.tokens.Verify(accessToken, token.TypeAccess)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}

	return subject, nil
}

// Logout отзывает сессию refresh-токена. Повторный logout того же
// токена не ошибка. Уже выданные access-токены остаются действительными
// до своего exp.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "service.tokens.Logout"

	claims, err := s.tokens.Verify(refreshToken, token.TypeRefresh)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.RevokeSession(ctx, claims.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrSessionRevoked)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if subject, err := uuid.Parse(claims.Subject); err == nil {
		s.audit(ctx, &subject, models.AuditLogout, map[string]any{"session_id": claims.ID})
	}

	return nil
}

// LogoutAll отзывает все сессии субъекта.
func (s *Service) LogoutAll(ctx context.Context, subject uuid.UUID) (int64, error) {
	const op = "service.tokens.LogoutAll"

	n, err := s.sessions.RevokeAllForSubject(ctx, subject)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.audit(ctx, &subject, models.AuditLogoutAll, map[string]any{"revoked_sessions": n})

	log.From(ctx).Info("logout_all",
		slog.String("op", op),
		slog.String("identity_id", subject.String()),
		slog.Int64("revoked_sessions", n),
	)

	return n, nil
}

// issuePair выпускает пару токенов и записывает новую сессию.
func (s *Service) issuePair(ctx context.Context, subject uuid.UUID) (*models.TokenPair, error) {
	const op = "service.tokens.issuePair"

	access, refresh, err := s.mint(subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.sessions.CreateSession(ctx, newSession(ctx, subject, refresh)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pairOf(access, refresh), nil
}

func (s *Service) mint(subject uuid.UUID) (access, refresh *token.Issued, err error) {
	access, err = s.tokens.IssueAccessToken(subject.String())
	if err != nil {
		return nil, nil, err
	}

	refresh, err = s.tokens.IssueRefreshToken(subject.String())
	if err != nil {
		return nil, nil, err
	}

	return access, refresh, nil
}

func newSession(ctx context.Context, subject uuid.UUID, refresh *token.Issued) *models.Session {
	meta := clientMeta(ctx)

	return &models.Session{
		ID:          refresh.ID,
		Subject:     subject,
		IssuedAt:    refresh.IssuedAt,
		ExpiresAt:   refresh.ExpiresAt,
		CreatedByIP: meta.IP,
		UserAgent:   meta.UserAgent,
	}
}

func pairOf(access, refresh *token.Issued) *models.TokenPair {
	return &models.TokenPair{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		TokenType:        "Bearer",
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}
}

func refreshResult(err error) string {
	if errors.Is(err, token.ErrExpired) {
		return metrics.ResultExpired
	}

	return metrics.ResultInvalid
}
