// memory — хранилище в памяти процесса. Используется при DB_DRIVER=memory
// для локальной разработки и в тестах сценариев. Все операции выполняются
// под одним мьютексом, поэтому атомарность счётчиков и ротации тривиальна.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

type Storage struct {
	mu           sync.Mutex
	byID         map[uuid.UUID]*models.Identity
	byIdentifier map[string]uuid.UUID
	sessions     map[string]*models.Session
	audit        []models.AuditEvent
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		byID:         make(map[uuid.UUID]*models.Identity),
		byIdentifier: make(map[string]uuid.UUID),
		sessions:     make(map[string]*models.Session),
	}
}

// Close ничего не делает; нужен для соответствия storage.Storage.
func (s *Storage) Close() {}

func (s *Storage) CreateIdentity(ctx context.Context, identity *models.Identity) error {
	const op = "storage.memory.CreateIdentity"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byIdentifier[identity.Identifier]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	if _, ok := s.byID[identity.ID]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	s.byID[identity.ID] = cloneIdentity(identity)
	s.byIdentifier[identity.Identifier] = identity.ID

	return nil
}

func (s *Storage) IdentityByIdentifier(ctx context.Context, identifier string) (*models.Identity, error) {
	const op = "storage.memory.IdentityByIdentifier"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.lookup(identifier)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return cloneIdentity(ident), nil
}

func (s *Storage) IdentityByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	const op = "storage.memory.IdentityByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return cloneIdentity(ident), nil
}

func (s *Storage) RecordFailedAttempt(ctx context.Context, identifier string, policy models.LockoutPolicy, now time.Time) (*models.Identity, error) {
	const op = "storage.memory.RecordFailedAttempt"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.lookup(identifier)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if ident.Status != models.StatusActive {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrLocked)
	}

	ident.FailedAttempts++
	if ident.FailedAttempts >= policy.Threshold {
		until := now.Add(policy.Duration)
		ident.Status = models.StatusLocked
		ident.LockedUntil = &until
	}
	ident.UpdatedAt = now

	return cloneIdentity(ident), nil
}

func (s *Storage) RecordSuccess(ctx context.Context, identifier string, now time.Time) (*models.Identity, error) {
	const op = "storage.memory.RecordSuccess"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.lookup(identifier)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if ident.Locked(now) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrLocked)
	}

	activate(ident, now)
	ident.LastLoginAt = &now

	return cloneIdentity(ident), nil
}

func (s *Storage) ExpireLock(ctx context.Context, identifier string, now time.Time) (*models.Identity, error) {
	const op = "storage.memory.ExpireLock"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.lookup(identifier)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if ident.Status == models.StatusLocked && !ident.Locked(now) {
		activate(ident, now)
	}

	return cloneIdentity(ident), nil
}

func (s *Storage) SetPassword(ctx context.Context, identifier string, hash, salt []byte, now time.Time) error {
	const op = "storage.memory.SetPassword"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.lookup(identifier)
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	ident.PasswordHash = append([]byte(nil), hash...)
	ident.PasswordSalt = append([]byte(nil), salt...)
	activate(ident, now)

	return nil
}

func (s *Storage) Unlock(ctx context.Context, identifier string, now time.Time) error {
	const op = "storage.memory.Unlock"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.lookup(identifier)
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	activate(ident, now)

	return nil
}

func (s *Storage) SetPhoto(ctx context.Context, id uuid.UUID, key, url string, now time.Time) error {
	const op = "storage.memory.SetPhoto"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ident, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	ident.PhotoKey = key
	ident.PhotoURL = url
	ident.UpdatedAt = now

	return nil
}

func (s *Storage) SaveAuditEvent(ctx context.Context, e *models.AuditEvent) error {
	const op = "storage.memory.SaveAuditEvent"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.audit = append(s.audit, *e)

	return nil
}

// AuditEvents возвращает копию журнала аудита.
func (s *Storage) AuditEvents() []models.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AuditEvent, len(s.audit))
	copy(out, s.audit)

	return out
}

func (s *Storage) lookup(identifier string) (*models.Identity, bool) {
	id, ok := s.byIdentifier[identifier]
	if !ok {
		return nil, false
	}

	ident, ok := s.byID[id]
	return ident, ok
}

func activate(ident *models.Identity, now time.Time) {
	ident.Status = models.StatusActive
	ident.FailedAttempts = 0
	ident.LockedUntil = nil
	ident.UpdatedAt = now
}

func cloneIdentity(in *models.Identity) *models.Identity {
	out := *in
	out.PasswordHash = append([]byte(nil), in.PasswordHash...)
	out.PasswordSalt = append([]byte(nil), in.PasswordSalt...)

	if in.LockedUntil != nil {
		t := *in.LockedUntil
		out.LockedUntil = &t
	}

	if in.LastLoginAt != nil {
		t := *in.LastLoginAt
		out.LastLoginAt = &t
	}

	return &out
}

// Проверка на соответствие интерфейсам.
var (
	_ storage.Storage        = (*Storage)(nil)
	_ storage.SessionStorage = (*Storage)(nil)
)
