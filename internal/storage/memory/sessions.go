package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

func (s *Storage) CreateSession(ctx context.Context, sess *models.Session) error {
	const op = "storage.memory.CreateSession"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertSession(op, sess)
}

func (s *Storage) SessionByID(ctx context.Context, id string) (*models.Session, error) {
	const op = "storage.memory.SessionByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	cp := *sess
	return &cp, nil
}

func (s *Storage) RevokeSession(ctx context.Context, id string) error {
	const op = "storage.memory.RevokeSession"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	sess.Revoked = true

	return nil
}

func (s *Storage) RevokeAllForSubject(ctx context.Context, subject uuid.UUID) (int64, error) {
	const op = "storage.memory.RevokeAllForSubject"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, sess := range s.sessions {
		if sess.Subject == subject && !sess.Revoked {
			sess.Revoked = true
			n++
		}
	}

	return n, nil
}

func (s *Storage) RotateSession(ctx context.Context, oldID string, next *models.Session, now time.Time) error {
	const op = "storage.memory.RotateSession"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.sessions[oldID]
	switch {
	case !ok:
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	case old.Revoked:
		return fmt.Errorf("%s: %w", op, storage.ErrRevoked)
	case !old.Valid(now):
		return fmt.Errorf("%s: %w", op, storage.ErrExpired)
	}

	if err := s.insertSession(op, next); err != nil {
		return err
	}

	old.Revoked = true

	return nil
}

func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.memory.DeleteExpiredSessions"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sess := range s.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(s.sessions, id)
			n++
		}
	}

	return n, nil
}

// insertSession вызывается под s.mu.
func (s *Storage) insertSession(op string, sess *models.Session) error {
	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	if _, ok := s.byID[sess.Subject]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	cp := *sess
	cp.Revoked = false
	s.sessions[sess.ID] = &cp

	return nil
}
