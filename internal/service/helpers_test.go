package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-identity-service/internal/config"
	"github.com/pribylovaa/go-identity-service/internal/metrics"
	"github.com/pribylovaa/go-identity-service/internal/mocks"
	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/password"
	"github.com/pribylovaa/go-identity-service/internal/storage/memory"
	"github.com/pribylovaa/go-identity-service/internal/token"
)

const (
	testIdentifier = "12345678"
	testPassword   = "Password123!"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// Минимальные PNG/JPEG/WEBP-сигнатуры, которые распознаёт http.DetectContentType.
var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF\x00")
	webpBytes = []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
)

// fakeClock — управляемые часы, общие для сервиса и менеджера токенов.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// countingHasher считает вызовы Verify, чтобы проверить, что при
// действующей блокировке хэшер не вызывается.
type countingHasher struct {
	password.Hasher
	verifies atomic.Int32
}

func (h *countingHasher) Verify(plaintext string, hash, salt []byte) bool {
	h.verifies.Add(1)
	return h.Hasher.Verify(plaintext, hash, salt)
}

func testConfig() *config.Config {
	return &config.Config{
		Env: "local",
		Auth: config.AuthConfig{
			Keys:            map[string]string{"k1": "unit-secret-1"},
			ActiveKeyID:     "k1",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 24 * time.Hour,
			Issuer:          "identity-service",
			Audience:        []string{"identity-service"},
		},
		Lockout: config.LockoutConfig{Threshold: 3, Duration: 15 * time.Minute},
		Photos: config.PhotosConfig{
			MaxSizeBytes:        1024,
			AllowedContentTypes: []string{"image/jpeg", "image/png", "image/webp"},
		},
	}
}

// fastHasher — argon2id с минимальными параметрами, чтобы тесты шли быстро.
func fastHasher() *countingHasher {
	return &countingHasher{Hasher: password.NewArgon2id(1, 64, 1)}
}

func newTokens(t *testing.T, cfg *config.Config, clk *fakeClock) *token.Manager {
	t.Helper()
	m, err := token.New(cfg.Auth, token.WithClock(clk.Now))
	require.NoError(t, err)
	return m
}

// mockFixture — сервис поверх gomock-хранилищ.
type mockFixture struct {
	svc     *Service
	st      *mocks.MockStorage
	sess    *mocks.MockSessionStorage
	photos  *mocks.MockPhotoStorage
	hasher  *countingHasher
	clk     *fakeClock
	reg     *prometheus.Registry
}

func newMockFixture(t *testing.T) *mockFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &mockFixture{
		st:      mocks.NewMockStorage(ctrl),
		sess:    mocks.NewMockSessionStorage(ctrl),
		photos:  mocks.NewMockPhotoStorage(ctrl),
		hasher:  fastHasher(),
		clk:     &fakeClock{now: t0},
		reg:     prometheus.NewRegistry(),
	}

	cfg := testConfig()
	f.svc = New(f.st, f.sess, f.hasher, newTokens(t, cfg, f.clk), cfg,
		WithClock(f.clk.Now),
		WithPhotoStorage(f.photos),
		WithMetrics(metrics.New(f.reg)),
	)

	return f
}

// allowAudit разрешает любые записи аудита.
func (f *mockFixture) allowAudit() {
	f.st.EXPECT().SaveAuditEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

// identity возвращает активную запись с настоящим хэшем testPassword.
func (f *mockFixture) identity(t *testing.T) *models.Identity {
	t.Helper()
	hash, salt, err := f.hasher.Hash(testPassword)
	require.NoError(t, err)

	return &models.Identity{
		ID:           uuid.New(),
		Identifier:   testIdentifier,
		PasswordHash: hash,
		PasswordSalt: salt,
		Status:       models.StatusActive,
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
}

// memFixture — сервис поверх in-memory хранилища.
type memFixture struct {
	svc    *Service
	st     *memory.Storage
	hasher *countingHasher
	clk    *fakeClock
}

func newMemFixture(t *testing.T, opts ...Option) *memFixture {
	t.Helper()

	f := &memFixture{
		st:     memory.New(),
		hasher: fastHasher(),
		clk:    &fakeClock{now: t0},
	}

	cfg := testConfig()
	opts = append([]Option{WithClock(f.clk.Now)}, opts...)
	f.svc = New(f.st, f.st, f.hasher, newTokens(t, cfg, f.clk), cfg, opts...)

	return f
}

// counter возвращает сумму значений счётчика name по всем меткам.
func counter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	var sum float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}

	return sum
}
