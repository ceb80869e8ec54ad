package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pribylovaa/go-identity-service/internal/models"
)

// SaveAuditEvent добавляет запись в журнал аудита.
func (s *Storage) SaveAuditEvent(ctx context.Context, e *models.AuditEvent) error {
	const op = "storage.postgres.SaveAuditEvent"

	details := e.Details
	if details == nil {
		details = map[string]any{}
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO audit_logs(id, identity_id, action, ip, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.Exec(ctx, query,
		e.ID,
		e.IdentityID,
		e.Action,
		e.IP,
		e.UserAgent,
		raw,
		e.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, wrapConnErr(err))
	}

	return nil
}
