package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
	apperrors "github.com/aulaplus/aula-ui/internal/errors"
	"github.com/aulaplus/aula-ui/internal/mocks"
	mockauth "github.com/aulaplus/aula-ui/internal/mocks/auth"
	"github.com/aulaplus/aula-ui/internal/ports"
	"github.com/aulaplus/aula-ui/internal/testutil"
)

func newTestService(api ports.SchoolAPI, store ports.SessionStore) *SessionService {
	return NewSessionService(SessionOptions{
		API:      api,
		Sessions: store,
		TTL:      time.Hour,
		now:      testutil.FixedTimeFunc(testutil.TestTime()),
	})
}

func pendingSession(id, token string) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		Token:     token,
		State:     domainauth.StatePending,
		Epoch:     1,
		ExpiresAt: testutil.TestTime().Add(time.Hour),
	}
}

func TestBootstrapWithoutCookieIsAnonymous(t *testing.T) {
	svc := newTestService(mockauth.NewMockSchoolAPI(), mockauth.NewMemorySessionStore())

	sess := svc.Bootstrap(context.Background(), "")
	assert.Equal(t, domainauth.StateAnonymous, sess.State)
	assert.False(t, sess.Authenticated())
}

func TestBootstrapUnknownSessionIsAnonymous(t *testing.T) {
	svc := newTestService(mockauth.NewMockSchoolAPI(), mockauth.NewMemorySessionStore())

	sess := svc.Bootstrap(context.Background(), "no-such-session")
	assert.Equal(t, domainauth.StateAnonymous, sess.State)
}

func TestBootstrapResolvesPendingSession(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, pendingSession("s1", api.Token)))

	sess := svc.Bootstrap(ctx, "s1")
	require.True(t, sess.Authenticated())
	assert.Equal(t, api.DefaultUser.ID, sess.Identity.ID)
	assert.Equal(t, uint64(1), sess.Epoch)

	// The resolved state is persisted so the next request skips verification.
	stored, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domainauth.StateAuthenticated, stored.State)
	assert.Equal(t, 1, api.VerifyCalls)

	// Second bootstrap serves the stored record without another verify call.
	sess = svc.Bootstrap(ctx, "s1")
	assert.True(t, sess.Authenticated())
	assert.Equal(t, 1, api.VerifyCalls)
}

func TestBootstrapRejectedTokenClearsRecord(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, pendingSession("s1", "stale-token")))

	sess := svc.Bootstrap(ctx, "s1")
	assert.Equal(t, domainauth.StateAnonymous, sess.State)
	assert.Equal(t, 0, store.Len())
}

func TestBootstrapUpstreamOutageKeepsRecord(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	api.VerifyTokenFunc = func(context.Context, string) (ports.VerifiedUser, error) {
		return ports.VerifiedUser{}, apperrors.Transport("school API unreachable")
	}
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, pendingSession("s1", "t1")))

	sess := svc.Bootstrap(ctx, "s1")
	assert.Equal(t, domainauth.StateAnonymous, sess.State)
	// An outage must not log the user out permanently.
	assert.Equal(t, 1, store.Len())
}

func TestBootstrapProfileEnrichmentIsBestEffort(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	api.PerfilFunc = func(context.Context, string, domainauth.Role) (domainauth.Identity, error) {
		return domainauth.Identity{}, apperrors.Transport("profile unavailable")
	}
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, pendingSession("s1", api.Token)))

	sess := svc.Bootstrap(ctx, "s1")
	require.True(t, sess.Authenticated())
	// Identity falls back to the verify payload.
	assert.Equal(t, api.DefaultUser.ID, sess.Identity.ID)
	assert.Empty(t, sess.Identity.FullName)
}

func TestLoginRecordIsVerifiedOnFirstBootstrap(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)
	ctx := context.Background()

	sess, err := svc.Login(ctx, Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)
	require.True(t, sess.Authenticated())
	assert.Equal(t, 0, api.VerifyCalls)

	// Login persists the record pending; the first bootstrap must prove the
	// token upstream before trusting it.
	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domainauth.StatePending, stored.State)

	resolved := svc.Bootstrap(ctx, sess.ID)
	require.True(t, resolved.Authenticated())
	assert.Equal(t, 1, api.VerifyCalls)

	// Once proven, later bootstraps serve the record without another verify.
	svc.Bootstrap(ctx, sess.ID)
	assert.Equal(t, 1, api.VerifyCalls)
}

func TestBootstrapRejectsTokenRevokedAfterLogin(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)
	ctx := context.Background()

	sess, err := svc.Login(ctx, Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)

	// The school API revokes the token before the browser's next request.
	api.VerifyTokenFunc = func(context.Context, string) (ports.VerifiedUser, error) {
		return ports.VerifiedUser{}, apperrors.Unauthenticated("token revoked")
	}

	resolved := svc.Bootstrap(ctx, sess.ID)
	assert.False(t, resolved.Authenticated())
	assert.Equal(t, domainauth.StateAnonymous, resolved.State)
	assert.Equal(t, 0, store.Len())
}

func TestBootstrapKeepsLoginIdentityWhenEnrichmentFails(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	api.PerfilFunc = func(context.Context, string, domainauth.Role) (domainauth.Identity, error) {
		return domainauth.Identity{}, apperrors.Transport("profile unavailable")
	}
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)
	ctx := context.Background()

	sess, err := svc.Login(ctx, Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)

	resolved := svc.Bootstrap(ctx, sess.ID)
	require.True(t, resolved.Authenticated())
	// The identity captured at login survives an enrichment outage.
	assert.Equal(t, api.DefaultUser.FullName, resolved.Identity.FullName)
}

func TestLoginValidation(t *testing.T) {
	svc := newTestService(mockauth.NewMockSchoolAPI(), mockauth.NewMemorySessionStore())
	ctx := context.Background()

	tests := []struct {
		name  string
		creds Credentials
		field string
	}{
		{"missing password", Credentials{Kind: domainauth.RoleEstudiante, NumeroIdentificacion: "123"}, "password"},
		{"student without number", Credentials{Kind: domainauth.RoleEstudiante, Password: "pw"}, "numero_identificacion"},
		{"teacher without number", Credentials{Kind: domainauth.RoleMaestro, Password: "pw"}, "numero_identificacion"},
		{"admin without email", Credentials{Kind: domainauth.RoleAdmin, Password: "pw"}, "email"},
		{"unknown actor", Credentials{Kind: domainauth.Role("director"), Password: "pw"}, "actor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.creds)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestService(mockauth.NewMockSchoolAPI(), mockauth.NewMemorySessionStore())

	_, err := svc.Login(context.Background(), Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "wrong",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestLoginCreatesSession(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)

	sess, err := svc.Login(context.Background(), Credentials{
		Kind:     domainauth.RoleAdmin,
		Email:    "admin@example.com",
		Password: "pw",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, api.Token, sess.Token)
	assert.Equal(t, uint64(1), sess.Epoch)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, domainauth.RoleAdmin, sess.Identity.Role)
	assert.Equal(t, testutil.TestTime().Add(time.Hour), sess.ExpiresAt)

	stored, err := store.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, stored.ID)
}

func TestLoginDerivesTTLFromTokenExpiry(t *testing.T) {
	now := testutil.TestTime()
	shortExp := now.Add(10 * time.Minute)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": shortExp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	api := mockauth.NewMockSchoolAPI()
	api.Token = token
	svc := newTestService(api, mockauth.NewMemorySessionStore())

	sess, err := svc.Login(context.Background(), Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, shortExp.Unix(), sess.ExpiresAt.Unix())
}

func TestLoginOpaqueTokenFallsBackToConfiguredTTL(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	api.Token = "opaque-token"
	svc := newTestService(api, mockauth.NewMemorySessionStore())

	sess, err := svc.Login(context.Background(), Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, testutil.TestTime().Add(time.Hour), sess.ExpiresAt)
}

func TestLoginExpiredTokenGetsMinimalLifetime(t *testing.T) {
	now := testutil.TestTime()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": now.Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	api := mockauth.NewMockSchoolAPI()
	api.Token = token
	svc := newTestService(api, mockauth.NewMemorySessionStore())

	sess, err := svc.Login(context.Background(), Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)
	// A stale exp claim must not fall back to the full configured TTL.
	assert.Equal(t, now.Add(minSessionLifetime), sess.ExpiresAt)
}

func TestLogoutIsIdempotent(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)
	ctx := context.Background()

	sess, err := svc.Login(ctx, Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.Equal(t, 0, store.Len())

	// Second logout of the same session, and logout of nothing, are no-ops.
	require.NoError(t, svc.Logout(ctx, sess.ID))
	require.NoError(t, svc.Logout(ctx, ""))
}

func TestUpdateIdentityMergesAndBumpsEpoch(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)
	ctx := context.Background()

	sess, err := svc.Login(ctx, Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)
	// The session middleware resolves the record before any handler runs.
	require.True(t, svc.Bootstrap(ctx, sess.ID).Authenticated())

	newName := "Ana Actualizada"
	updated, err := svc.UpdateIdentity(ctx, sess.ID, ports.IdentityPatch{FullName: &newName}, 1)
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Identity.FullName)
	assert.Equal(t, uint64(2), updated.Epoch)
	// Role survives even though the update payload carries none for students.
	assert.Equal(t, domainauth.RoleEstudiante, updated.Identity.Role)
}

func TestUpdateIdentityStaleEpoch(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)
	ctx := context.Background()

	sess, err := svc.Login(ctx, Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)
	require.True(t, svc.Bootstrap(ctx, sess.ID).Authenticated())

	name := "x"
	_, err = svc.UpdateIdentity(ctx, sess.ID, ports.IdentityPatch{FullName: &name}, 99)
	require.Error(t, err)
	assert.True(t, apperrors.IsStale(err))
}

func TestUpdateIdentityAfterLogoutIsStale(t *testing.T) {
	api := mockauth.NewMockSchoolAPI()
	store := mockauth.NewMemorySessionStore()
	svc := newTestService(api, store)
	ctx := context.Background()

	sess, err := svc.Login(ctx, Credentials{
		Kind:                 domainauth.RoleEstudiante,
		NumeroIdentificacion: "123",
		Password:             "pw",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, sess.ID))

	name := "x"
	_, err = svc.UpdateIdentity(ctx, sess.ID, ports.IdentityPatch{FullName: &name}, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsStale(err))
}

func TestUpdateIdentityStoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mockauth.NewMockSchoolAPI()
	store := mocks.NewMockSessionStore(ctrl)
	svc := newTestService(api, store)
	ctx := context.Background()

	t.Run("load failure", func(t *testing.T) {
		store.EXPECT().Get(gomock.Any(), "s1").
			Return(domainauth.Session{}, apperrors.Internal("boom"))

		name := "x"
		_, err := svc.UpdateIdentity(ctx, "s1", ports.IdentityPatch{FullName: &name}, 1)
		require.Error(t, err)
		assert.False(t, apperrors.IsStale(err))
	})

	t.Run("save failure", func(t *testing.T) {
		sess := domainauth.Session{
			ID:        "s1",
			Token:     api.Token,
			Identity:  &domainauth.Identity{ID: "u1", Role: domainauth.RoleEstudiante},
			State:     domainauth.StateAuthenticated,
			Epoch:     1,
			ExpiresAt: testutil.TestTime().Add(time.Hour),
		}
		store.EXPECT().Get(gomock.Any(), "s1").Return(sess, nil)
		store.EXPECT().Save(gomock.Any(), gomock.Any()).
			Return(apperrors.Internal("write failed"))

		name := "x"
		_, err := svc.UpdateIdentity(ctx, "s1", ports.IdentityPatch{FullName: &name}, 1)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeInternal, apperrors.GetCode(err))
	})
}
