// config предоставляет структуру конфигурации сервиса и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
//
// Конфигурация читается один раз при старте и дальше передаётся
// в конструкторы компонентов явно; глобального состояния пакет не держит.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/pribylovaa/go-identity-service/internal/models"
)

// Допустимые значения переключателей.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	SessionsDefault = ""
	SessionsRedis   = "redis"

	PhotosNone  = "none"
	PhotosMinio = "minio"
	PhotosS3    = "s3"

	HashArgon2id = "argon2id"
	HashBcrypt   = "bcrypt"
)

// Config — корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
//
// Перед чтением подгружается .env (путь в ENV_FILE), уже заданные
// переменные окружения им не перекрываются.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Lockout  LockoutConfig  `yaml:"lockout"`
	Password PasswordConfig `yaml:"password"`
	DB       DBConfig       `yaml:"db"`
	Sessions SessionsConfig `yaml:"sessions"`
	Photos   PhotosConfig   `yaml:"photos"`
	Audit    AuditConfig    `yaml:"audit"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host              string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"HTTP_READ_HEADER_TIMEOUT" env-default:"5s"`
	// TrustProxy — брать IP клиента из X-Forwarded-For/X-Real-IP.
	TrustProxy bool `yaml:"trust_proxy" env:"HTTP_TRUST_PROXY"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// AuthConfig содержит параметры выпуска и валидации токенов.
//
// Keys — набор ключей подписи kid -> секрет. Новые токены подписываются
// ключом ActiveKeyID, проверка принимает любой ключ из набора, поэтому
// ротация сводится к добавлению нового ключа и смене ActiveKeyID.
// В ENV набор задаётся как JWT_KEYS="k1:secret1,k2:secret2".
//
// Leeway — допуск на расхождение часов при проверке exp/nbf. Выпуск и
// проверка идут в одном процессе, поэтому по умолчанию 0.
type AuthConfig struct {
	Keys            map[string]string `yaml:"keys" env:"JWT_KEYS"`
	ActiveKeyID     string            `yaml:"active_key_id" env:"JWT_ACTIVE_KEY_ID"`
	AccessTokenTTL  time.Duration     `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"15m"`
	RefreshTokenTTL time.Duration     `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"720h"`
	Issuer          string            `yaml:"issuer" env:"ISSUER" env-default:"identity-service"`
	Audience        []string          `yaml:"audience" env:"AUDIENCE" env-default:"identity-service"`
	Leeway          time.Duration     `yaml:"leeway" env:"TOKEN_LEEWAY" env-default:"0s"`
}

// LockoutConfig — политика блокировки после неудачных входов.
type LockoutConfig struct {
	Threshold int           `yaml:"threshold" env:"LOCKOUT_THRESHOLD" env-default:"5"`
	Duration  time.Duration `yaml:"duration" env:"LOCKOUT_DURATION" env-default:"15m"`
}

// PasswordConfig — параметры хэширования паролей.
type PasswordConfig struct {
	Algorithm     string `yaml:"algorithm" env:"PASSWORD_ALGORITHM" env-default:"argon2id"`
	Argon2Time    uint32 `yaml:"argon2_time" env:"ARGON2_TIME" env-default:"2"`
	Argon2Memory  uint32 `yaml:"argon2_memory_kib" env:"ARGON2_MEMORY_KIB" env-default:"19456"`
	Argon2Threads uint8  `yaml:"argon2_threads" env:"ARGON2_THREADS" env-default:"1"`
	BcryptCost    int    `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"12"`
}

// DBConfig — настройки основного хранилища.
// Driver=memory допустим только для локальной разработки.
type DBConfig struct {
	Driver         string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	DatabaseURL    string `yaml:"db_url" env:"DATABASE_URL"`
	SkipMigrations bool   `yaml:"skip_migrations" env:"DB_SKIP_MIGRATIONS"`
}

// SessionsConfig — где живёт журнал сессий.
// Пустой Backend означает «там же, где учётные записи».
type SessionsConfig struct {
	Backend       string        `yaml:"backend" env:"SESSIONS_BACKEND"`
	RedisURL      string        `yaml:"redis_url" env:"REDIS_URL"`
	KeyPrefix     string        `yaml:"key_prefix" env:"SESSIONS_KEY_PREFIX" env-default:"identity:"`
	JanitorPeriod time.Duration `yaml:"janitor_period" env:"SESSIONS_JANITOR_PERIOD" env-default:"30m"`
}

// PhotosConfig — объектное хранилище фотографий профиля.
type PhotosConfig struct {
	Backend             string   `yaml:"backend" env:"PHOTOS_BACKEND" env-default:"none"`
	Endpoint            string   `yaml:"endpoint" env:"PHOTOS_ENDPOINT"`
	AccessKey           string   `yaml:"access_key" env:"PHOTOS_ACCESS_KEY"`
	SecretKey           string   `yaml:"secret_key" env:"PHOTOS_SECRET_KEY"`
	Bucket              string   `yaml:"bucket" env:"PHOTOS_BUCKET" env-default:"profile-photos"`
	Region              string   `yaml:"region" env:"PHOTOS_REGION" env-default:"us-east-1"`
	PublicBaseURL       string   `yaml:"public_base_url" env:"PHOTOS_PUBLIC_BASE_URL"`
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"PHOTOS_MAX_SIZE_BYTES" env-default:"5242880"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"PHOTOS_ALLOWED_CONTENT_TYPES" env-default:"image/jpeg,image/png,image/webp"`
}

// AuditConfig — настройки журнала аудита.
// NodeID — номер узла генератора snowflake-идентификаторов (0..1023),
// у каждого экземпляра сервиса должен быть свой.
type AuditConfig struct {
	NodeID int64 `yaml:"node_id" env:"AUDIT_NODE_ID" env-default:"1"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// ВАЖНО: после чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func read(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv подгружает .env, если он есть. Отсутствие файла не ошибка.
func loadDotEnv() error {
	p := os.Getenv("ENV_FILE")
	if p == "" {
		p = ".env"
	}

	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("env file %q stat failed: %w", p, err)
	}

	if err := godotenv.Load(p); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", p, err)
	}

	return nil
}

// Validate проверяет согласованность значений, которые нельзя выразить тегами.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.Keys) == 0 {
		errs = append(errs, errors.New("auth.keys: at least one signing key is required"))
	}

	for kid, secret := range c.Auth.Keys {
		if kid == "" || secret == "" {
			errs = append(errs, fmt.Errorf("auth.keys: empty kid or secret for %q", kid))
		}
	}

	if _, ok := c.Auth.Keys[c.Auth.ActiveKeyID]; !ok {
		errs = append(errs, fmt.Errorf("auth.active_key_id: %q is not in auth.keys", c.Auth.ActiveKeyID))
	}

	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("auth: token ttl must be positive"))
	}

	if c.Auth.Leeway < 0 {
		errs = append(errs, errors.New("auth.leeway must not be negative"))
	}

	if c.Lockout.Threshold < 1 {
		errs = append(errs, errors.New("lockout.threshold must be >= 1"))
	}

	if c.Lockout.Duration <= 0 {
		errs = append(errs, errors.New("lockout.duration must be positive"))
	}

	switch c.Password.Algorithm {
	case HashArgon2id, HashBcrypt:
	default:
		errs = append(errs, fmt.Errorf("password.algorithm: unknown %q", c.Password.Algorithm))
	}

	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.DatabaseURL == "" {
			errs = append(errs, errors.New("db.db_url is required for postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("db.driver: unknown %q", c.DB.Driver))
	}

	switch c.Sessions.Backend {
	case SessionsDefault:
	case SessionsRedis:
		if c.Sessions.RedisURL == "" {
			errs = append(errs, errors.New("sessions.redis_url is required for redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("sessions.backend: unknown %q", c.Sessions.Backend))
	}

	switch c.Photos.Backend {
	case PhotosNone:
	case PhotosMinio, PhotosS3:
		if c.Photos.Endpoint == "" || c.Photos.Bucket == "" {
			errs = append(errs, errors.New("photos: endpoint and bucket are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("photos.backend: unknown %q", c.Photos.Backend))
	}

	if c.Audit.NodeID < 0 || c.Audit.NodeID > 1023 {
		errs = append(errs, errors.New("audit.node_id must be in [0, 1023]"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return nil
}

// Policy возвращает параметры блокировки в виде, удобном хранилищу.
func (l LockoutConfig) Policy() models.LockoutPolicy {
	return models.LockoutPolicy{Threshold: l.Threshold, Duration: l.Duration}
}
