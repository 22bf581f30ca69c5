package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
	apperrors "github.com/aulaplus/aula-ui/internal/errors"
	"github.com/aulaplus/aula-ui/internal/testutil"
)

func testSession(id string, expiresAt time.Time) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		Token:     "tok-" + id,
		Identity:  &domainauth.Identity{ID: "u1", Role: domainauth.RoleEstudiante},
		State:     domainauth.StateAuthenticated,
		Epoch:     1,
		ExpiresAt: expiresAt,
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStoreWithPrefix(client, "test-session:")
	ctx := context.Background()

	sess := testSession("s1", time.Now().Add(time.Hour))
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, domainauth.StateAuthenticated, got.State)
	assert.Equal(t, uint64(1), got.Epoch)
	require.NotNil(t, got.Identity)
	assert.Equal(t, domainauth.RoleEstudiante, got.Identity.Role)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStoreValidation(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	err := store.Save(ctx, testSession("", time.Now().Add(time.Hour)))
	assert.True(t, apperrors.IsValidation(err))

	err = store.Save(ctx, testSession("s1", time.Now().Add(-time.Minute)))
	assert.True(t, apperrors.IsValidation(err))
}

func TestSessionStoreKeyExpires(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := testSession("s1", time.Now().Add(1100*time.Millisecond))
	require.NoError(t, store.Save(ctx, sess))

	time.Sleep(1500 * time.Millisecond)

	_, err := store.Get(ctx, "s1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSessionStoreMissingIsNotFound(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = store.Get(context.Background(), "")
	assert.True(t, apperrors.IsNotFound(err))

	assert.NoError(t, store.Delete(context.Background(), ""))
}
