package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/pribylovaa/go-identity-service/internal/config"
	"github.com/pribylovaa/go-identity-service/internal/metrics"
	"github.com/pribylovaa/go-identity-service/internal/password"
	"github.com/pribylovaa/go-identity-service/internal/service"
	"github.com/pribylovaa/go-identity-service/internal/storage"
	"github.com/pribylovaa/go-identity-service/internal/storage/memory"
	"github.com/pribylovaa/go-identity-service/internal/storage/minio"
	"github.com/pribylovaa/go-identity-service/internal/storage/postgres"
	"github.com/pribylovaa/go-identity-service/internal/storage/redis"
	"github.com/pribylovaa/go-identity-service/internal/storage/s3"
	"github.com/pribylovaa/go-identity-service/internal/token"
)

// connectTimeout — предел на подключение к каждому внешнему хранилищу.
const connectTimeout = 10 * time.Second

// app — собранные зависимости процесса.
type app struct {
	svc      *service.Service
	storage  storage.Storage
	sessions storage.SessionStorage
	closers  []func() error
}

func (a *app) close(log *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn("close_failed", slog.String("err", err.Error()))
		}
	}
	a.closers = nil
}

// bootstrap подключает хранилища по конфигурации и собирает Service.
// При ошибке уже открытые ресурсы закрываются.
func bootstrap(ctx context.Context, cfg *config.Config, log *slog.Logger, m *metrics.Metrics) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.close(log)
		}
	}()

	a.storage, err = openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() error { a.storage.Close(); return nil })

	a.sessions, err = openSessions(ctx, cfg, a.storage, log)
	if err != nil {
		return nil, err
	}
	if c, ok := a.sessions.(interface{ Close() error }); ok {
		a.closers = append(a.closers, c.Close)
	}

	hasher, err := password.New(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	tokens, err := token.New(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	node, err := snowflake.NewNode(cfg.Audit.NodeID)
	if err != nil {
		return nil, fmt.Errorf("audit node: %w", err)
	}

	opts := []service.Option{
		service.WithMetrics(m),
		service.WithAuditNode(node),
	}

	photos, err := openPhotos(ctx, cfg.Photos, log)
	if err != nil {
		return nil, err
	}
	if photos != nil {
		opts = append(opts, service.WithPhotoStorage(photos))
	}

	a.svc = service.New(a.storage, a.sessions, hasher, tokens, cfg, opts...)
	log.Info("service_initialized")

	return a, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn("memory_storage_in_use", slog.String("hint", "data is lost on restart"))
		return memory.New(), nil

	default:
		dbCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		if !cfg.DB.SkipMigrations {
			if err := postgres.Migrate(dbCtx, cfg.DB.DatabaseURL); err != nil {
				return nil, fmt.Errorf("postgres migrate: %w", err)
			}
			log.Info("postgres_migrated")
		}

		st, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		log.Info("postgres_connected")

		return st, nil
	}
}

// openSessions возвращает журнал сессий: redis или основное хранилище.
func openSessions(ctx context.Context, cfg *config.Config, st storage.Storage, log *slog.Logger) (storage.SessionStorage, error) {
	if cfg.Sessions.Backend == config.SessionsRedis {
		rctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		rs, err := redis.New(rctx, cfg.Sessions.RedisURL, cfg.Sessions.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		log.Info("redis_connected")

		return rs, nil
	}

	sessions, ok := st.(storage.SessionStorage)
	if !ok {
		return nil, fmt.Errorf("storage %T does not keep sessions", st)
	}

	return sessions, nil
}

// openPhotos подключает объектное хранилище; nil — фото отключены.
func openPhotos(ctx context.Context, cfg config.PhotosConfig, log *slog.Logger) (storage.PhotoStorage, error) {
	pctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.Backend {
	case config.PhotosMinio:
		p, err := minio.New(pctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("minio connect: %w", err)
		}
		log.Info("minio_connected", slog.String("bucket", cfg.Bucket))
		return p, nil

	case config.PhotosS3:
		p, err := s3.New(pctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("s3 connect: %w", err)
		}
		log.Info("s3_connected", slog.String("bucket", cfg.Bucket))
		return p, nil

	default:
		log.Info("photos_disabled")
		return nil, nil
	}
}
