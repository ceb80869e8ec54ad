package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-identity-service/internal/pkg/log"
	apierrors "github.com/pribylovaa/go-identity-service/internal/transport/http/errors"
)

// TokenVerifier проверяет access-токен и возвращает субъекта.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (uuid.UUID, error)
}

// AuthBearer требует заголовок "Authorization: Bearer <access>",
// проверяет токен и кладёт субъекта в контекст. Без валидного
// токена запрос дальше не идёт: 401 с кодом из errors.ToHTTP.
func AuthBearer(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				apierrors.WriteError(w, r, apierrors.ErrUnauthenticated)
				return
			}

			subject, err := v.VerifyAccessToken(r.Context(), raw)
			if err != nil {
				log.From(r.Context()).Debug("bearer_rejected", log.Err(err))
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxSubject, subject)
			ctx = log.With(ctx, slog.String("identity_id", subject.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFrom возвращает субъекта, проверенного AuthBearer.
func SubjectFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxSubject).(uuid.UUID)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")

	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}
