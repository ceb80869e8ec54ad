package reqmeta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-identity-service/internal/models"
)

func TestIntoFrom(t *testing.T) {
	t.Parallel()

	ctx := Into(context.Background(), models.ClientMeta{IP: "10.0.0.1", UserAgent: "curl/8"})
	got := From(ctx)
	require.Equal(t, "10.0.0.1", got.IP)
	require.Equal(t, "curl/8", got.UserAgent)
}

func TestFrom_Empty(t *testing.T) {
	t.Parallel()

	require.Equal(t, models.ClientMeta{}, From(context.Background()))
}
