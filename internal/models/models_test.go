package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func TestIdentity_Locked(t *testing.T) {
	t.Parallel()

	until := t0.Add(time.Minute)

	tests := []struct {
		name string
		id   Identity
		now  time.Time
		want bool
	}{
		{name: "active", id: Identity{Status: StatusActive}, now: t0, want: false},
		{name: "locked_before_deadline", id: Identity{Status: StatusLocked, LockedUntil: &until}, now: t0, want: true},
		{name: "locked_at_deadline", id: Identity{Status: StatusLocked, LockedUntil: &until}, now: until, want: false},
		{name: "locked_after_deadline", id: Identity{Status: StatusLocked, LockedUntil: &until}, now: until.Add(time.Second), want: false},
		{name: "locked_without_deadline", id: Identity{Status: StatusLocked}, now: t0.Add(24 * time.Hour), want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, tt.id.Locked(tt.now))
		})
	}
}

func TestSession_Valid(t *testing.T) {
	t.Parallel()

	s := Session{ExpiresAt: t0.Add(time.Hour)}
	require.True(t, s.Valid(t0))
	require.False(t, s.Valid(t0.Add(time.Hour)))

	s.Revoked = true
	require.False(t, s.Valid(t0))
}

func TestProfileOf_HidesSecrets(t *testing.T) {
	t.Parallel()

	p := ProfileOf(&Identity{
		Identifier:   "12345678",
		PasswordHash: []byte("h"),
		PasswordSalt: []byte("s"),
		Status:       StatusActive,
		PhotoURL:     "http://x/y.png",
		CreatedAt:    t0,
	})

	require.Equal(t, "12345678", p.Identifier)
	require.Equal(t, "http://x/y.png", p.PhotoURL)
	require.Equal(t, t0, p.CreatedAt)
}
