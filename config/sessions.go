package config

import (
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects which session store adapter backs the console.
type SessionBackend string

const (
	// SessionBackendRedis stores sessions in Redis (default).
	SessionBackendRedis SessionBackend = "redis"
	// SessionBackendPostgres stores sessions in PostgreSQL.
	SessionBackendPostgres SessionBackend = "postgres"
	// SessionBackendMemory stores sessions in process memory (development only).
	SessionBackendMemory SessionBackend = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "redis", "postgres", "memory":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: redis, postgres, memory)", v)
	}
}

// SessionsConfig groups session store configuration.
type SessionsConfig struct {
	// Backend determines which session store adapter to use.
	Backend SessionBackend `env:"SESSION_BACKEND" envDefault:"redis"`

	// TTL is the default session lifetime, used when the upstream token
	// carries no parseable expiry.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// KeyPrefix namespaces session records in shared stores.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"session:"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionsConfig) Sanitize() {
	if s.TTL < time.Minute {
		s.TTL = time.Minute
	}
	if s.KeyPrefix == "" {
		s.KeyPrefix = "session:"
	}
}
