package config

import "time"

// APIConfig contains configuration for the school GraphQL API the console
// delegates to. The endpoint is the single externally significant setting.
type APIConfig struct {
	// URL is the GraphQL endpoint of the school management API.
	URL string `env:"GRAPHQL_API_URL" envDefault:"http://localhost:4000/graphql"`

	// Timeout is the per-request HTTP timeout. Verify and login operations
	// make a single attempt each; there is no automatic retry.
	Timeout time.Duration `env:"GRAPHQL_API_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to API configuration values.
func (a *APIConfig) Sanitize() {
	if a.Timeout <= 0 {
		a.Timeout = 10 * time.Second
	}
}
