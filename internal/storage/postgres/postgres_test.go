package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

// Интеграционные тесты пакета postgres:
// - поднимают реальный PostgreSQL через testcontainers-go (postgres:16-alpine);
// - применяют встроенные миграции goose через Migrate;
// - проверяют счётчик неудач и блокировку под конкуренцией, атомарную
//   ротацию сессий и журнал аудита.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -race -count=1

var (
	t0     = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	policy = models.LockoutPolicy{Threshold: 3, Duration: 15 * time.Minute}
)

// startPostgres — поднимает временный PostgreSQL, применяет миграции и
// возвращает хранилище. Без GO_TEST_INTEGRATION тест пропускается.
func startPostgres(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "5432/tcp")
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	// ListeningPort срабатывает раньше, чем postgres готов принимать запросы.
	require.Eventually(t, func() bool {
		return Migrate(ctx, dsn) == nil
	}, 30*time.Second, 500*time.Millisecond)

	// повторный прогон миграций — no-op.
	require.NoError(t, Migrate(ctx, dsn))

	st, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	return st
}

func seed(t *testing.T, st *Storage, identifier string) *models.Identity {
	t.Helper()

	ident := &models.Identity{
		ID:           uuid.New(),
		Identifier:   identifier,
		PasswordHash: []byte("hash"),
		PasswordSalt: []byte("salt"),
		Status:       models.StatusActive,
		CreatedAt:    t0,
		UpdatedAt:    t0,
	}
	require.NoError(t, st.CreateIdentity(context.Background(), ident))

	return ident
}

func newSession(subject uuid.UUID, exp time.Time) *models.Session {
	return &models.Session{
		ID:          uuid.NewString(),
		Subject:     subject,
		IssuedAt:    t0,
		ExpiresAt:   exp,
		CreatedByIP: "10.0.0.1",
		UserAgent:   "test",
	}
}

func TestIntegration_Identity_CreateAndLookup(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	ident := seed(t, st, "12345678")

	got, err := st.IdentityByIdentifier(ctx, "12345678")
	require.NoError(t, err)
	require.Equal(t, ident.ID, got.ID)
	require.Equal(t, []byte("hash"), got.PasswordHash)
	require.Equal(t, models.StatusActive, got.Status)
	require.Nil(t, got.LockedUntil)

	got, err = st.IdentityByID(ctx, ident.ID)
	require.NoError(t, err)
	require.Equal(t, "12345678", got.Identifier)

	dup := *ident
	dup.ID = uuid.New()
	require.ErrorIs(t, st.CreateIdentity(ctx, &dup), storage.ErrAlreadyExists)

	_, err = st.IdentityByIdentifier(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.IdentityByID(ctx, uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_Lockout_StateMachine(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	seed(t, st, "lock-me")

	for i := 1; i < policy.Threshold; i++ {
		got, err := st.RecordFailedAttempt(ctx, "lock-me", policy, t0)
		require.NoError(t, err)
		require.Equal(t, i, got.FailedAttempts)
		require.Equal(t, models.StatusActive, got.Status)
	}

	got, err := st.RecordFailedAttempt(ctx, "lock-me", policy, t0)
	require.NoError(t, err)
	require.Equal(t, models.StatusLocked, got.Status)
	require.NotNil(t, got.LockedUntil)
	require.WithinDuration(t, t0.Add(policy.Duration), *got.LockedUntil, time.Millisecond)

	_, err = st.RecordFailedAttempt(ctx, "lock-me", policy, t0)
	require.ErrorIs(t, err, storage.ErrLocked)

	_, err = st.RecordSuccess(ctx, "lock-me", t0.Add(time.Minute))
	require.ErrorIs(t, err, storage.ErrLocked)

	// до истечения ExpireLock ничего не меняет.
	got, err = st.ExpireLock(ctx, "lock-me", t0.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, models.StatusLocked, got.Status)

	got, err = st.ExpireLock(ctx, "lock-me", t0.Add(policy.Duration))
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, got.Status)
	require.Zero(t, got.FailedAttempts)
	require.Nil(t, got.LockedUntil)

	got, err = st.RecordSuccess(ctx, "lock-me", t0.Add(policy.Duration))
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)

	_, err = st.RecordFailedAttempt(ctx, "missing", policy, t0)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_RecordFailedAttempt_Concurrent(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	seed(t, st, "race")

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		lockers int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			got, err := st.RecordFailedAttempt(ctx, "race", policy, t0)
			if errors.Is(err, storage.ErrLocked) {
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if got.Status == models.StatusLocked {
				mu.Lock()
				lockers++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, lockers, "exactly one caller observes the lock transition")

	got, err := st.IdentityByIdentifier(ctx, "race")
	require.NoError(t, err)
	require.Equal(t, policy.Threshold, got.FailedAttempts)
	require.Equal(t, models.StatusLocked, got.Status)
}

func TestIntegration_SetPasswordUnlockPhoto(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	ident := seed(t, st, "pw-user")

	for i := 0; i < policy.Threshold; i++ {
		_, _ = st.RecordFailedAttempt(ctx, "pw-user", policy, t0)
	}

	require.NoError(t, st.Unlock(ctx, "pw-user", t0))
	got, err := st.IdentityByIdentifier(ctx, "pw-user")
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, got.Status)

	require.NoError(t, st.SetPassword(ctx, "pw-user", []byte("h2"), nil, t0))
	got, err = st.IdentityByIdentifier(ctx, "pw-user")
	require.NoError(t, err)
	require.Equal(t, []byte("h2"), got.PasswordHash)
	require.Empty(t, got.PasswordSalt)

	require.NoError(t, st.SetPhoto(ctx, ident.ID, "photos/x.png", "http://cdn/x.png", t0))
	got, err = st.IdentityByID(ctx, ident.ID)
	require.NoError(t, err)
	require.Equal(t, "photos/x.png", got.PhotoKey)
	require.Equal(t, "http://cdn/x.png", got.PhotoURL)

	require.ErrorIs(t, st.Unlock(ctx, "missing", t0), storage.ErrNotFound)
	require.ErrorIs(t, st.SetPassword(ctx, "missing", []byte("h"), nil, t0), storage.ErrNotFound)
	require.ErrorIs(t, st.SetPhoto(ctx, uuid.New(), "k", "u", t0), storage.ErrNotFound)
}

func TestIntegration_Sessions_Lifecycle(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	ident := seed(t, st, "sess-user")
	exp := t0.Add(time.Hour)

	s1 := newSession(ident.ID, exp)
	require.NoError(t, st.CreateSession(ctx, s1))
	require.ErrorIs(t, st.CreateSession(ctx, s1), storage.ErrAlreadyExists)

	// сессия несуществующего субъекта.
	require.ErrorIs(t, st.CreateSession(ctx, newSession(uuid.New(), exp)), storage.ErrNotFound)

	got, err := st.SessionByID(ctx, s1.ID)
	require.NoError(t, err)
	require.Equal(t, ident.ID, got.Subject)
	require.Equal(t, "10.0.0.1", got.CreatedByIP)
	require.True(t, got.Valid(t0))

	s2 := newSession(ident.ID, exp)
	require.NoError(t, st.RotateSession(ctx, s1.ID, s2, t0))

	got, err = st.SessionByID(ctx, s1.ID)
	require.NoError(t, err)
	require.True(t, got.Revoked)

	require.ErrorIs(t, st.RotateSession(ctx, s1.ID, newSession(ident.ID, exp), t0), storage.ErrRevoked)
	require.ErrorIs(t, st.RotateSession(ctx, "missing", newSession(ident.ID, exp), t0), storage.ErrNotFound)
	require.ErrorIs(t, st.RotateSession(ctx, s2.ID, newSession(ident.ID, exp), exp), storage.ErrExpired)

	// дубликат next откатывает ротацию целиком: s2 остаётся активной.
	require.Error(t, st.RotateSession(ctx, s2.ID, s1, t0))
	got, err = st.SessionByID(ctx, s2.ID)
	require.NoError(t, err)
	require.False(t, got.Revoked)

	require.NoError(t, st.RevokeSession(ctx, s2.ID))
	require.NoError(t, st.RevokeSession(ctx, s2.ID))
	require.ErrorIs(t, st.RevokeSession(ctx, "missing"), storage.ErrNotFound)
}

func TestIntegration_RotateSession_Concurrent(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	ident := seed(t, st, "rot-user")
	old := newSession(ident.ID, t0.Add(time.Hour))
	require.NoError(t, st.CreateSession(ctx, old))

	const n = 10
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = st.RotateSession(ctx, old.ID, newSession(ident.ID, t0.Add(time.Hour)), t0)
		}(i)
	}
	wg.Wait()

	var ok, revoked int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, storage.ErrRevoked):
			revoked++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, ok)
	require.Equal(t, n-1, revoked)
}

func TestIntegration_RevokeAllAndDeleteExpired(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	ident := seed(t, st, "bulk-user")

	live := newSession(ident.ID, t0.Add(time.Hour))
	stale := newSession(ident.ID, t0.Add(-time.Minute))
	require.NoError(t, st.CreateSession(ctx, live))
	require.NoError(t, st.CreateSession(ctx, stale))

	n, err := st.RevokeAllForSubject(ctx, ident.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	n, err = st.RevokeAllForSubject(ctx, ident.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = st.DeleteExpiredSessions(ctx, t0)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = st.SessionByID(ctx, stale.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.SessionByID(ctx, live.ID)
	require.NoError(t, err)
}

func TestIntegration_AuditEvent(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	ident := seed(t, st, "audit-user")

	require.NoError(t, st.SaveAuditEvent(ctx, &models.AuditEvent{
		ID:         1,
		IdentityID: &ident.ID,
		Action:     models.AuditLogin,
		IP:         "10.0.0.1",
		Details:    map[string]any{"k": "v"},
		CreatedAt:  t0,
	}))

	// событие без субъекта (неизвестный идентификатор).
	require.NoError(t, st.SaveAuditEvent(ctx, &models.AuditEvent{
		ID:        2,
		Action:    models.AuditLoginFailed,
		CreatedAt: t0,
	}))

	var count int
	require.NoError(t, st.db.QueryRow(ctx, `SELECT count(*) FROM audit_logs`).Scan(&count))
	require.Equal(t, 2, count)
}

func TestIntegration_CanceledContext(t *testing.T) {
	st := startPostgres(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.IdentityByIdentifier(ctx, "whatever")
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, storage.ErrUnavailable)
}

func TestIntegration_DeadlineExceeded_NotUnavailable(t *testing.T) {
	st := startPostgres(t)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := st.IdentityByIdentifier(ctx, "whatever")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, storage.ErrUnavailable)
}

// wrapConnErr не требует базы: проверяется на синтетических ошибках.
func TestWrapConnErr(t *testing.T) {
	t.Parallel()

	require.NoError(t, wrapConnErr(nil))

	deadline := fmt.Errorf("query: %w", context.DeadlineExceeded)
	got := wrapConnErr(deadline)
	require.ErrorIs(t, got, context.DeadlineExceeded)
	require.NotErrorIs(t, got, storage.ErrUnavailable)

	canceled := fmt.Errorf("query: %w", context.Canceled)
	require.NotErrorIs(t, wrapConnErr(canceled), storage.ErrUnavailable)

	connLost := &pgconn.PgError{Code: pgerrcode.ConnectionFailure}
	got = wrapConnErr(connLost)
	require.ErrorIs(t, got, storage.ErrUnavailable)
	require.ErrorIs(t, got, connLost)

	plain := errors.New("boom")
	require.Equal(t, plain, wrapConnErr(plain))
}
