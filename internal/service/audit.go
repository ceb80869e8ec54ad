package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/pkg/log"
)

// audit пишет событие в журнал аудита. Ошибка записи только логируется:
// журнал вспомогательный и не должен ронять основную операцию.
func (s *Service) audit(ctx context.Context, identityID *uuid.UUID, action string, details map[string]any) {
	const op = "service.audit"

	meta := clientMeta(ctx)

	e := &models.AuditEvent{
		ID:         s.auditIDs.Generate().Int64(),
		IdentityID: identityID,
		Action:     action,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
		Details:    details,
		CreatedAt:  s.clock(),
	}

	if err := s.storage.SaveAuditEvent(ctx, e); err != nil {
		log.From(ctx).Warn("audit_write_failed",
			slog.String("op", op),
			slog.String("action", action),
			log.Err(err),
		)
	}
}
