package middleware

import (
	"net"
	"net/http"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/pkg/reqmeta"
)

// maxUserAgentLen — User-Agent обрезается до этой длины перед записью
// в сессию и аудит.
const maxUserAgentLen = 256

// ClientMeta кладёт IP и User-Agent клиента в контекст для сессий и аудита.
// IP берётся из RemoteAddr; за прокси его заранее переписывает chi RealIP.
func ClientMeta() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}

			ua := r.UserAgent()
			if len(ua) > maxUserAgentLen {
				ua = ua[:maxUserAgentLen]
			}

			ctx := reqmeta.Into(r.Context(), models.ClientMeta{IP: ip, UserAgent: ua})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
