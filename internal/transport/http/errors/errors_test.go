package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-identity-service/internal/service"
	"github.com/pribylovaa/go-identity-service/internal/storage"
)

func TestToHTTP_Mapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"bad_request", ErrBadRequest, http.StatusBadRequest, "invalid_argument"},
		{"invalid_identifier", service.ErrInvalidIdentifier, http.StatusBadRequest, "invalid_identifier"},
		{"weak_password", service.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
		{"too_long", service.ErrPasswordTooLong, http.StatusBadRequest, "invalid_password"},
		{"invalid_photo", service.ErrInvalidPhoto, http.StatusBadRequest, "invalid_photo"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"invalid_credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"token_expired", service.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{"bad_signature", service.ErrInvalidSignature, http.StatusUnauthorized, "invalid_token"},
		{"wrong_type", service.ErrWrongTokenType, http.StatusUnauthorized, "invalid_token"},
		{"session_revoked", service.ErrSessionRevoked, http.StatusUnauthorized, "session_revoked"},
		{"session_expired", service.ErrSessionExpired, http.StatusUnauthorized, "session_expired"},
		{"locked", service.ErrAccountLocked, http.StatusLocked, "account_locked"},
		{"not_found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"duplicate", service.ErrDuplicateIdentity, http.StatusConflict, "already_exists"},
		{"photos_disabled", service.ErrPhotosDisabled, http.StatusNotImplemented, "unimplemented"},
		{"unavailable", fmt.Errorf("op: %w", storage.ErrUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "canceled"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(fmt.Errorf("service.op: %w", tc.in))
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_DoesNotLeakDetails(t *testing.T) {
	_, resp := ToHTTP(fmt.Errorf("storage.postgres.CreateIdentity: password=hunter2: %w", service.ErrDuplicateIdentity))
	require.NotContains(t, resp.Error.Message, "hunter2")
	require.NotContains(t, resp.Error.Message, "postgres")
}

func TestWriteError_EnvelopeAndRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.Header.Set("X-Request-Id", "rid-1")

	WriteError(rr, req, service.ErrSessionRevoked)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))

	var env ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "session_revoked", env.Error.Code)
	require.Equal(t, "rid-1", env.Error.RequestID)
}
