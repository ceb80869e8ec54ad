// reqmeta переносит сведения о клиенте (IP, User-Agent) от HTTP-слоя
// в сервис, где они попадают в журнал сессий и аудита.
package reqmeta

import (
	"context"

	"github.com/pribylovaa/go-identity-service/internal/models"
)

type ctxKey struct{}

// Into кладёт сведения о клиенте в контекст.
func Into(ctx context.Context, m models.ClientMeta) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// From возвращает сведения о клиенте; пустую структуру, если их нет.
func From(ctx context.Context) models.ClientMeta {
	if m, ok := ctx.Value(ctxKey{}).(models.ClientMeta); ok {
		return m
	}

	return models.ClientMeta{}
}
