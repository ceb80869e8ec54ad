package models

import (
	"time"

	"github.com/google/uuid"
)

// Действия, попадающие в журнал аудита.
const (
	AuditRegister       = "register"
	AuditLogin          = "login"
	AuditLoginFailed    = "login_failed"
	AuditAccountLocked  = "account_locked"
	AuditRefresh        = "refresh"
	AuditLogout         = "logout"
	AuditLogoutAll      = "logout_all"
	AuditPasswordChange = "password_change"
	AuditUnlock         = "unlock"
	AuditPhotoUpload    = "photo_upload"
)

// AuditEvent — запись журнала аудита.
type AuditEvent struct {
	ID         int64
	IdentityID *uuid.UUID
	Action     string
	IP         string
	UserAgent  string
	Details    map[string]any
	CreatedAt  time.Time
}

// ClientMeta — сведения о клиенте, инициировавшем запрос.
type ClientMeta struct {
	IP        string
	UserAgent string
}
