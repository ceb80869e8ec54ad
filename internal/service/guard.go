package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

// accountGuard — автомат состояний active/locked поверх IdentityStorage.
//
// Переходы:
//   - active -> locked: policy.Threshold неудач подряд (recordFailure);
//   - locked -> active: истёк срок блокировки, проверяется лениво при
//     следующей попытке входа (admit), фонового таймера нет;
//   - locked -> active: явная разблокировка (Service.Unlock).
type accountGuard struct {
	store  storage.IdentityStorage
	policy models.LockoutPolicy
}

// admit решает, можно ли вообще проверять пароль. Для действующей
// блокировки возвращает ErrAccountLocked, хэшер при этом не вызывается.
// Истёкшая блокировка снимается до проверки пароля.
func (g *accountGuard) admit(ctx context.Context, ident *models.Identity, now time.Time) (*models.Identity, error) {
	const op = "service.guard.admit"

	if ident.Locked(now) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountLocked)
	}

	if ident.Status != models.StatusLocked {
		return ident, nil
	}

	updated, err := g.store.ExpireLock(ctx, ident.Identifier, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	// Параллельная попытка могла успеть заблокировать запись заново.
	if updated.Locked(now) {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountLocked)
	}

	return updated, nil
}

// recordFailure учитывает неудачу. locked == true, если именно этот
// вызов перевёл запись в locked.
func (g *accountGuard) recordFailure(ctx context.Context, identifier string, now time.Time) (locked bool, err error) {
	const op = "service.guard.recordFailure"

	updated, err := g.store.RecordFailedAttempt(ctx, identifier, g.policy, now)
	if err != nil {
		// Запись заблокировал конкурентный вызов: для этой попытки
		// ответ тот же, что и при неверном пароле.
		if errors.Is(err, storage.ErrLocked) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return updated.Status == models.StatusLocked, nil
}

// recordSuccess сбрасывает счётчик. ErrAccountLocked, если между проверкой
// и успехом запись успели заблокировать.
func (g *accountGuard) recordSuccess(ctx context.Context, identifier string, now time.Time) (*models.Identity, error) {
	const op = "service.guard.recordSuccess"

	updated, err := g.store.RecordSuccess(ctx, identifier, now)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountLocked)
		}

		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return updated, nil
}

// mapStorageErr переводит ошибки хранилища в ошибки сервиса.
// ErrUnavailable сохраняется в цепочке как есть (ErrStorageUnavailable — его алиас).
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		return ErrDuplicateIdentity
	default:
		return err
	}
}
