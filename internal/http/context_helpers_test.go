package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
)

func TestIsAnonymous(t *testing.T) {
	ctx := context.Background()

	// No session middleware at all.
	assert.True(t, IsAnonymous(ctx))

	assert.True(t, IsAnonymous(SetSessionInContext(ctx, domainauth.Anonymous())))

	assert.False(t, IsAnonymous(SetSessionInContext(ctx, TestSession(domainauth.RoleAdmin))))
}

func TestSessionIDRoundTrip(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetSessionIDFromContext(ctx))
	assert.Equal(t, "cookie-1", GetSessionIDFromContext(SetSessionIDInContext(ctx, "cookie-1")))

	// An empty id is never stored.
	assert.Empty(t, GetSessionIDFromContext(SetSessionIDInContext(ctx, "")))
}
