package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pribylovaa/go-identity-service/internal/metrics"
	"github.com/pribylovaa/go-identity-service/internal/transport/http/handlers"
	"github.com/pribylovaa/go-identity-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.

	// TrustProxy включает chi RealIP: IP клиента берётся из
	// X-Forwarded-For/X-Real-IP. Только за доверенным прокси.
	TrustProxy bool

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler // nil — /metrics не регистрируется

	// Ready сообщает готовность для /healthz; nil — всегда готов.
	Ready func() bool

	MaxPhotoBytes int64
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
// Служебные /livez, /healthz и /metrics живут на том же роутере, но вне
// API-цепочки middleware.
func NewRouter(svc handlers.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	registerProbes(root, opts)

	root.Group(func(api chi.Router) {
		// Middleware (внешний -> внутренний).
		if opts.TrustProxy {
			api.Use(chimw.RealIP)
		}

		api.Use(
			middleware.Recover(),            // безопасно ловим паники
			middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
			middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
			middleware.Metrics(opts.Metrics),
			middleware.ClientMeta(), // IP и User-Agent для сессий и аудита
			middleware.Timeout(opts.Timeout),
		)

		h := handlers.New(svc, handlers.Options{MaxPhotoBytes: opts.MaxPhotoBytes})

		if opts.BasePath != "" {
			api.Route(opts.BasePath, func(sub chi.Router) {
				registerRoutes(sub, h, svc)
			})
			return
		}

		registerRoutes(api, h, svc)
	})

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, v middleware.TokenVerifier) {
	// публичные
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/logout", h.Logout)

	// по access-токену
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthBearer(v))

		r.Post("/auth/logout-all", h.LogoutAll)
		r.Post("/auth/password", h.ChangePassword)
		r.Get("/me", h.Me)
		r.Put("/me/photo", h.PutPhoto)
		r.Get("/me/photo", h.GetPhoto)
	})
}

func registerProbes(r chi.Router, opts Options) {
	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready == nil || opts.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}
}
