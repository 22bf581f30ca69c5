package graphql

// Package graphql implements the school API ports over GraphQL HTTP.
// Every operation is a single POST to the configured endpoint; there is no
// automatic retry, and only the login mutations go out without a bearer token.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/aulaplus/aula-ui/internal/errors"
	"github.com/aulaplus/aula-ui/internal/ports"
)

// Config captures the client settings for the school GraphQL API.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Client   *http.Client // Optional, defaults to a client with Timeout
}

// Client talks to the school management GraphQL API.
type Client struct {
	endpoint string
	client   *http.Client
}

// Ensure compile-time conformance to the ports.
var (
	_ ports.SchoolAPI     = (*Client)(nil)
	_ ports.SchoolQueries = (*Client)(nil)
)

// NewClient builds a school API client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("graphql endpoint is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{endpoint: endpoint, client: hc}, nil
}

// request is the GraphQL HTTP request envelope.
type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// response is the GraphQL HTTP response envelope.
type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// upstreamError carries a GraphQL-level error message from the API so each
// operation can map it onto the right error code.
type upstreamError struct {
	message string
}

func (e *upstreamError) Error() string { return e.message }

// do posts one operation and returns the raw data payload.
// A non-empty token is attached as a bearer header.
func (c *Client) do(ctx context.Context, token, query string, vars map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build graphql request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTransport, "school API unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Transport(fmt.Sprintf("school API returned status %d", resp.StatusCode))
	}

	var envelope response
	if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil {
		return nil, apperrors.Wrap(decodeErr, apperrors.ErrCodeMalformedResponse, "decode graphql response")
	}

	if len(envelope.Errors) > 0 {
		return nil, &upstreamError{message: envelope.Errors[0].Message}
	}
	if len(envelope.Data) == 0 {
		return nil, apperrors.MalformedResponse("graphql response missing data")
	}

	return envelope.Data, nil
}

// field extracts one named member of the data payload.
func field(data json.RawMessage, name string) (json.RawMessage, error) {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMalformedResponse, "decode graphql data")
	}
	raw, ok := members[name]
	if !ok || string(raw) == "null" {
		return nil, apperrors.MalformedResponse(fmt.Sprintf("graphql response missing %q", name))
	}
	return raw, nil
}
