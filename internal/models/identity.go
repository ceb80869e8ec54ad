package models

import (
	"time"

	"github.com/google/uuid"
)

// Status — состояние учётной записи с точки зрения блокировки входа.
type Status string

const (
	// StatusActive — вход разрешён.
	StatusActive Status = "active"
	// StatusLocked — вход временно запрещён после серии неудачных попыток
	// (или до явной разблокировки администратором).
	StatusLocked Status = "locked"
)

// Identity — учётная запись, ключом которой является естественный
// идентификатор (номер документа), указанный при регистрации.
//
// Пароль в открытом виде здесь не хранится никогда: только хэш и соль.
type Identity struct {
	ID             uuid.UUID
	Identifier     string
	PasswordHash   []byte
	PasswordSalt   []byte
	Status         Status
	FailedAttempts int
	// LockedUntil — момент снятия блокировки; nil для активной записи.
	LockedUntil *time.Time
	PhotoKey    string
	PhotoURL    string
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Locked сообщает, действует ли блокировка на момент now.
// Блокировка без срока (LockedUntil == nil) считается бессрочной.
func (i *Identity) Locked(now time.Time) bool {
	if i.Status != StatusLocked {
		return false
	}

	if i.LockedUntil == nil {
		return true
	}

	return now.Before(*i.LockedUntil)
}

// Profile — публичное представление учётной записи (без хэша и соли).
type Profile struct {
	ID          uuid.UUID  `json:"id"`
	Identifier  string     `json:"identifier"`
	Status      Status     `json:"status"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProfileOf строит публичный профиль из учётной записи.
func ProfileOf(i *Identity) *Profile {
	return &Profile{
		ID:          i.ID,
		Identifier:  i.Identifier,
		Status:      i.Status,
		PhotoURL:    i.PhotoURL,
		LastLoginAt: i.LastLoginAt,
		CreatedAt:   i.CreatedAt,
	}
}
