package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

const identityColumns = `
	id, identifier, password_hash, password_salt, status, failed_attempts,
	locked_until, photo_key, photo_url, last_login_at, created_at, updated_at`

func scanIdentity(row pgx.Row) (*models.Identity, error) {
	var (
		ident  models.Identity
		status string
	)

	err := row.Scan(
		&ident.ID,
		&ident.Identifier,
		&ident.PasswordHash,
		&ident.PasswordSalt,
		&status,
		&ident.FailedAttempts,
		&ident.LockedUntil,
		&ident.PhotoKey,
		&ident.PhotoURL,
		&ident.LastLoginAt,
		&ident.CreatedAt,
		&ident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ident.Status = models.Status(status)

	return &ident, nil
}

// CreateIdentity создает новую учётную запись.
func (s *Storage) CreateIdentity(ctx context.Context, identity *models.Identity) error {
	const op = "storage.postgres.CreateIdentity"

	query := `
		INSERT INTO identities(id, identifier, password_hash, password_salt, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		identity.ID,
		identity.Identifier,
		identity.PasswordHash,
		identity.PasswordSalt,
		string(identity.Status),
		identity.CreatedAt,
		identity.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	return nil
}

// IdentityByIdentifier находит учётную запись по идентификатору.
func (s *Storage) IdentityByIdentifier(ctx context.Context, identifier string) (*models.Identity, error) {
	const op = "storage.postgres.IdentityByIdentifier"

	query := `SELECT` + identityColumns + `
		FROM identities
		WHERE identifier = $1
	`

	ident, err := scanIdentity(s.db.QueryRow(ctx, query, identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	return ident, nil
}

// IdentityByID находит учётную запись по ID.
func (s *Storage) IdentityByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	const op = "storage.postgres.IdentityByID"

	query := `SELECT` + identityColumns + `
		FROM identities
		WHERE id = $1
	`

	ident, err := scanIdentity(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	return ident, nil
}

// RecordFailedAttempt — один условный UPDATE: инкремент счётчика и, при
// достижении порога, перевод в locked. Строка блокируется самим UPDATE,
// поэтому параллельные попытки сериализуются и не теряют инкременты.
// Если запись уже заблокирована, UPDATE ничего не затрагивает: отвечаем
// ErrLocked (или ErrNotFound, если записи нет вовсе).
func (s *Storage) RecordFailedAttempt(ctx context.Context, identifier string, policy models.LockoutPolicy, now time.Time) (*models.Identity, error) {
	const op = "storage.postgres.RecordFailedAttempt"

	query := `
		UPDATE identities
		SET failed_attempts = failed_attempts + 1,
		    status = CASE WHEN failed_attempts + 1 >= $2 THEN 'locked' ELSE status END,
		    locked_until = CASE WHEN failed_attempts + 1 >= $2 THEN $3::timestamptz ELSE locked_until END,
		    updated_at = $4
		WHERE identifier = $1 AND status = 'active'
		RETURNING` + identityColumns

	ident, err := scanIdentity(s.db.QueryRow(ctx, query,
		identifier,
		policy.Threshold,
		now.Add(policy.Duration),
		now,
	))
	if err == nil {
		return ident, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	if _, err := s.IdentityByIdentifier(ctx, identifier); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return nil, fmt.Errorf("%s: %w", op, storage.ErrLocked)
}

// RecordSuccess сбрасывает счётчик и блокировку и ставит last_login_at.
// Не срабатывает, если блокировка ещё действует.
func (s *Storage) RecordSuccess(ctx context.Context, identifier string, now time.Time) (*models.Identity, error) {
	const op = "storage.postgres.RecordSuccess"

	query := `
		UPDATE identities
		SET failed_attempts = 0,
		    status = 'active',
		    locked_until = NULL,
		    last_login_at = $2,
		    updated_at = $2
		WHERE identifier = $1
		  AND (status = 'active' OR (locked_until IS NOT NULL AND locked_until <= $2))
		RETURNING` + identityColumns

	ident, err := scanIdentity(s.db.QueryRow(ctx, query, identifier, now))
	if err == nil {
		return ident, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	if _, err := s.IdentityByIdentifier(ctx, identifier); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return nil, fmt.Errorf("%s: %w", op, storage.ErrLocked)
}

// ExpireLock — ленивое снятие истёкшей блокировки.
func (s *Storage) ExpireLock(ctx context.Context, identifier string, now time.Time) (*models.Identity, error) {
	const op = "storage.postgres.ExpireLock"

	query := `
		UPDATE identities
		SET failed_attempts = 0,
		    status = 'active',
		    locked_until = NULL,
		    updated_at = $2
		WHERE identifier = $1
		  AND status = 'locked'
		  AND locked_until IS NOT NULL
		  AND locked_until <= $2
		RETURNING` + identityColumns

	ident, err := scanIdentity(s.db.QueryRow(ctx, query, identifier, now))
	if err == nil {
		return ident, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	ident, err = s.IdentityByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ident, nil
}

// SetPassword заменяет хэш/соль и сбрасывает состояние неудач.
func (s *Storage) SetPassword(ctx context.Context, identifier string, hash, salt []byte, now time.Time) error {
	const op = "storage.postgres.SetPassword"

	query := `
		UPDATE identities
		SET password_hash = $2,
		    password_salt = $3,
		    failed_attempts = 0,
		    status = 'active',
		    locked_until = NULL,
		    updated_at = $4
		WHERE identifier = $1
	`

	tag, err := s.db.Exec(ctx, query, identifier, hash, salt, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// Unlock — административная разблокировка.
func (s *Storage) Unlock(ctx context.Context, identifier string, now time.Time) error {
	const op = "storage.postgres.Unlock"

	query := `
		UPDATE identities
		SET failed_attempts = 0,
		    status = 'active',
		    locked_until = NULL,
		    updated_at = $2
		WHERE identifier = $1
	`

	tag, err := s.db.Exec(ctx, query, identifier, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// SetPhoto сохраняет ключ и URL фотографии профиля.
func (s *Storage) SetPhoto(ctx context.Context, id uuid.UUID, key, url string, now time.Time) error {
	const op = "storage.postgres.SetPhoto"

	query := `
		UPDATE identities
		SET photo_key = $2, photo_url = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, id, key, url, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
