package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-identity-service/internal/config"
	"github.com/pribylovaa/go-identity-service/internal/mocks"
	"github.com/pribylovaa/go-identity-service/internal/models"
	"github.com/pribylovaa/go-identity-service/internal/storage/memory"
)

// Сценарные тесты сервиса поверх in-memory хранилища с управляемыми часами:
// полный цикл register -> login -> access -> refresh -> replay, блокировка
// после N неудач, ленивое снятие блокировки, параллельный refresh,
// logout, смена пароля и разблокировка.

func TestScenario_RegisterLoginRefreshReplay(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	id, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	pair, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	subject, err := f.svc.VerifyAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, id, subject)

	f.clk.Advance(16 * time.Minute)

	_, err = f.svc.VerifyAccessToken(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenExpired)

	next, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	subject, err = f.svc.VerifyAccessToken(ctx, next.AccessToken)
	require.NoError(t, err)
	require.Equal(t, id, subject)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)

	// новая пара по-прежнему рабочая.
	_, err = f.svc.Refresh(ctx, next.RefreshToken)
	require.NoError(t, err)
}

func TestRegister_TwiceDuplicate_NoPartialState(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	first, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, testIdentifier, "Another-pass1")
	require.ErrorIs(t, err, ErrDuplicateIdentity)

	// исходная запись не тронута: старый пароль подходит.
	ident, err := f.st.IdentityByIdentifier(ctx, testIdentifier)
	require.NoError(t, err)
	require.Equal(t, first, ident.ID)

	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)
}

func TestLockout_AfterThreshold_EvenWithCorrectPassword(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	threshold := testConfig().Lockout.Threshold
	for i := 0; i < threshold; i++ {
		_, err := f.svc.Login(ctx, testIdentifier, "Wrong-pass1")
		require.ErrorIs(t, err, ErrInvalidCredentials, "attempt %d", i+1)
		require.NotErrorIs(t, err, ErrAccountLocked)
	}

	verifies := f.hasher.verifies.Load()

	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.ErrorIs(t, err, ErrAccountLocked)
	require.Equal(t, verifies, f.hasher.verifies.Load(), "hasher must not run while locked")

	// за секунду до истечения всё ещё заблокировано.
	f.clk.Advance(15*time.Minute - time.Second)
	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.ErrorIs(t, err, ErrAccountLocked)

	f.clk.Advance(time.Second)
	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	ident, err := f.st.IdentityByIdentifier(ctx, testIdentifier)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, ident.Status)
	require.Zero(t, ident.FailedAttempts)
	require.Nil(t, ident.LockedUntil)
}

func TestLockout_ExpiredLock_WrongPasswordStartsFreshCount(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _ = f.svc.Login(ctx, testIdentifier, "Wrong-pass1")
	}

	f.clk.Advance(time.Hour)

	_, err = f.svc.Login(ctx, testIdentifier, "Wrong-pass1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	ident, err := f.st.IdentityByIdentifier(ctx, testIdentifier)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, ident.Status)
	require.Equal(t, 1, ident.FailedAttempts)
}

func TestLogin_SuccessResetsFailureCounter(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := f.svc.Login(ctx, testIdentifier, "Wrong-pass1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	ident, err := f.st.IdentityByIdentifier(ctx, testIdentifier)
	require.NoError(t, err)
	require.Zero(t, ident.FailedAttempts)
	require.NotNil(t, ident.LastLoginAt)

	// счётчик начался заново: ещё две неудачи не блокируют.
	for i := 0; i < 2; i++ {
		_, _ = f.svc.Login(ctx, testIdentifier, "Wrong-pass1")
	}
	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)
}

func TestLockout_ConcurrentFailures_NoUndercount(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Login(ctx, testIdentifier, "Wrong-pass1")
			if !errors.Is(err, ErrInvalidCredentials) && !errors.Is(err, ErrAccountLocked) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	ident, err := f.st.IdentityByIdentifier(ctx, testIdentifier)
	require.NoError(t, err)
	require.Equal(t, models.StatusLocked, ident.Status)
	require.Equal(t, testConfig().Lockout.Threshold, ident.FailedAttempts)

	var locks int
	for _, e := range f.st.AuditEvents() {
		if e.Action == models.AuditAccountLocked {
			locks++
		}
	}
	require.Equal(t, 1, locks, "lock transition must be recorded exactly once")
}

func TestRefresh_Concurrent_ExactlyOneSucceeds(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	pair, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	const n = 2
	results := make([]error, n)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = f.svc.Refresh(ctx, pair.RefreshToken)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, revoked int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSessionRevoked):
			revoked++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, ok)
	require.Equal(t, 1, revoked)
}

func TestLogout_ThenRefreshRevoked_AccessStillValid(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	pair, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, pair.RefreshToken))

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)

	// access-токен stateless и живёт до своего exp.
	_, err = f.svc.VerifyAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
}

func TestRefresh_AfterRefreshTTL_Expired(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	pair, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	f.clk.Advance(25 * time.Hour)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefresh_WithAccessToken_WrongType(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	pair, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrWrongTokenType)

	_, err = f.svc.VerifyAccessToken(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestLogoutAll_RevokesEverySession(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	id, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	p1, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)
	p2, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	n, err := f.svc.LogoutAll(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	for _, p := range []*models.TokenPair{p1, p2} {
		_, err := f.svc.Refresh(ctx, p.RefreshToken)
		require.ErrorIs(t, err, ErrSessionRevoked)
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	id, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	pair, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	err = f.svc.ChangePassword(ctx, id, "Wrong-pass1", "NewPassword1!")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// неверный текущий пароль не считается неудачным входом.
	ident, err := f.st.IdentityByID(ctx, id)
	require.NoError(t, err)
	require.Zero(t, ident.FailedAttempts)

	err = f.svc.ChangePassword(ctx, id, testPassword, "weak")
	require.ErrorIs(t, err, ErrWeakPassword)

	require.NoError(t, f.svc.ChangePassword(ctx, id, testPassword, "NewPassword1!"))

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)

	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, testIdentifier, "NewPassword1!")
	require.NoError(t, err)
}

func TestUnlock(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, _ = f.svc.Login(ctx, testIdentifier, "Wrong-pass1")
	}

	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.ErrorIs(t, err, ErrAccountLocked)

	require.NoError(t, f.svc.Unlock(ctx, " "+testIdentifier))

	_, err = f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Unlock(ctx, "87654321"), ErrNotFound)
	require.ErrorIs(t, f.svc.Unlock(ctx, "x"), ErrInvalidIdentifier)
}

func TestProfileAndPhoto(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	photos := mocks.NewMockPhotoStorage(ctrl)

	f := newMemFixture(t, WithPhotoStorage(photos))
	ctx := context.Background()

	id, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	var storedKey string
	photos.EXPECT().PutPhoto(gomock.Any(), gomock.Any(), webpBytes, "image/webp").
		DoAndReturn(func(_ context.Context, key string, _ []byte, _ string) (string, error) {
			storedKey = key
			return "http://cdn.local/" + key, nil
		})

	url, err := f.svc.UploadPhoto(ctx, id, "image/webp", webpBytes)
	require.NoError(t, err)

	profile, err := f.svc.Profile(ctx, id)
	require.NoError(t, err)
	require.Equal(t, testIdentifier, profile.Identifier)
	require.Equal(t, url, profile.PhotoURL)

	photos.EXPECT().GetPhoto(gomock.Any(), storedKey).Return(webpBytes, "image/webp", nil)

	data, ct, err := f.svc.Photo(ctx, id)
	require.NoError(t, err)
	require.Equal(t, webpBytes, data)
	require.Equal(t, "image/webp", ct)
}

func TestAuditTrail(t *testing.T) {
	t.Parallel()

	f := newMemFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	_, _ = f.svc.Login(ctx, testIdentifier, "Wrong-pass1")
	_, _ = f.svc.Login(ctx, "99999999", testPassword)

	pair, err := f.svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	var actions []string
	ids := make(map[int64]struct{})
	for _, e := range f.st.AuditEvents() {
		actions = append(actions, e.Action)
		ids[e.ID] = struct{}{}
	}

	require.Equal(t, []string{
		models.AuditRegister,
		models.AuditLoginFailed,
		models.AuditLoginFailed,
		models.AuditLogin,
		models.AuditRefresh,
	}, actions)
	require.Len(t, ids, len(actions), "audit ids must be unique")
}

// Конфигурация с умолчаниями из тегов: access-токен перестаёт приниматься
// сразу после exp.
func TestScenario_AccessTokenExpiresOnDefaultConfig(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("TOKEN_LEEWAY", "")
	require.NoError(t, os.Unsetenv("TOKEN_LEEWAY"))

	const yml = `
auth:
  keys:
    k1: "unit-secret-1"
  active_key_id: "k1"
db:
  driver: "memory"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	clk := &fakeClock{now: t0}
	st := memory.New()
	svc := New(st, st, fastHasher(), newTokens(t, cfg, clk), cfg, WithClock(clk.Now))

	ctx := context.Background()
	_, err = svc.Register(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	pair, err := svc.Login(ctx, testIdentifier, testPassword)
	require.NoError(t, err)

	clk.Advance(cfg.Auth.AccessTokenTTL - time.Second)
	_, err = svc.VerifyAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)
	_, err = svc.VerifyAccessToken(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenExpired)
}
