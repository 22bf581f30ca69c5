package httpx

import (
	"strings"
	"testing"
	"time"

	domainauth "github.com/aulaplus/aula-ui/internal/domain/auth"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests using the
// embedded templates.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{})
	if err != nil {
		t.Fatalf("template renderer: %v", err)
	}
	return tr
}

// TestSession builds an authenticated session for handler tests.
func TestSession(role domainauth.Role) domainauth.Session {
	return domainauth.Session{
		ID:    "test-session-1",
		Token: "test-token-1",
		Identity: &domainauth.Identity{
			ID:       "user-1",
			Role:     role,
			FullName: "Ana Prueba",
			Email:    "ana@example.com",
			Active:   true,
		},
		State:     domainauth.StateAuthenticated,
		Epoch:     1,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
