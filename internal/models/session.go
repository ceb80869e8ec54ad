package models

import (
	"time"

	"github.com/google/uuid"
)

// Session — запись журнала сессий, соответствующая выданному refresh-токену.
// Ключ — идентификатор токена (jti).
type Session struct {
	ID          string
	Subject     uuid.UUID
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Revoked     bool
	CreatedByIP string
	UserAgent   string
}

// Valid — сессия не отозвана и не истекла на момент now.
func (s *Session) Valid(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}
