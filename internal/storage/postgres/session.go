package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/pkg/log"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

// execer — общее подмножество pgxpool.Pool и pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// CreateSession сохраняет новую сессию.
func (s *Storage) CreateSession(ctx context.Context, sess *models.Session) error {
	const op = "storage.postgres.CreateSession"

	if err := insertSession(ctx, s.db, sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func insertSession(ctx context.Context, db execer, sess *models.Session) error {
	query := `
		INSERT INTO sessions(id, subject, issued_at, expires_at, revoked, created_by_ip, user_agent)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`

	_, err := db.Exec(ctx, query,
		sess.ID,
		sess.Subject,
		sess.IssuedAt,
		sess.ExpiresAt,
		sess.CreatedByIP,
		sess.UserAgent,
	)

	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return storage.ErrAlreadyExists
	case isForeignKeyViolation(err):
		// субъекта нет (например, учётная запись удалена).
		return storage.ErrNotFound
	default:
		return wrapConnErr(err)
	}
}

// SessionByID находит сессию по идентификатору токена.
func (s *Storage) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	const op = "storage.postgres.SessionByID"

	query := `
		SELECT id, subject, issued_at, expires_at, revoked, created_by_ip, user_agent
		FROM sessions
		WHERE id = $1
	`

	var sess models.Session
	err := s.db.QueryRow(ctx, query, id).Scan(
		&sess.ID,
		&sess.Subject,
		&sess.IssuedAt,
		&sess.ExpiresAt,
		&sess.Revoked,
		&sess.CreatedByIP,
		&sess.UserAgent,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	return &sess, nil
}

// RevokeSession помечает сессию отозванной. Повторный вызов не ошибка.
func (s *Storage) RevokeSession(ctx context.Context, id string) error {
	const op = "storage.postgres.RevokeSession"

	query := `
		UPDATE sessions
		SET revoked = TRUE
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// RevokeAllForSubject отзывает все активные сессии субъекта.
func (s *Storage) RevokeAllForSubject(ctx context.Context, subject uuid.UUID) (int64, error) {
	const op = "storage.postgres.RevokeAllForSubject"

	query := `
		UPDATE sessions
		SET revoked = TRUE
		WHERE subject = $1 AND revoked = FALSE
	`

	tag, err := s.db.Exec(ctx, query, subject)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	return tag.RowsAffected(), nil
}

// RotateSession в одной транзакции: блокирует старую сессию (FOR UPDATE),
// проверяет её пригодность, отзывает и вставляет новую. Второй параллельный
// вызов с тем же oldID ждёт на блокировке строки и после коммита первого
// видит revoked=TRUE. Любая ошибка откатывает транзакцию целиком.
func (s *Storage) RotateSession(ctx context.Context, oldID string, next *models.Session, now time.Time) (err error) {
	const op = "storage.postgres.RotateSession"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.From(ctx).Warn("session_rotate_rollback_failed",
				slog.String("op", op),
				slog.String("err", rbErr.Error()),
			)
		}
	}()

	old := models.Session{ID: oldID}

	sel := `
		SELECT revoked, expires_at
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`

	if err = tx.QueryRow(ctx, sel, oldID).Scan(&old.Revoked, &old.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	if old.Revoked {
		return fmt.Errorf("%s: %w", op, storage.ErrRevoked)
	}

	if !old.Valid(now) {
		return fmt.Errorf("%s: %w", op, storage.ErrExpired)
	}

	if _, err = tx.Exec(ctx, `UPDATE sessions SET revoked = TRUE WHERE id = $1`, oldID); err != nil {
		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	if err = insertSession(ctx, tx, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	return nil
}

// DeleteExpiredSessions удаляет все просроченные сессии.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.postgres.DeleteExpiredSessions"

	query := `
		DELETE FROM sessions
		WHERE expires_at <= $1
	`

	tag, err := s.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	return tag.RowsAffected(), nil
}
