package session

import (
	"context"
	"net/url"

	"github.com/accessguard/console/transport"
)

// LoginStrategy is one protocol for exchanging operator credentials for a
// token pair. The manager tries its strategies in order and the first
// structurally successful response wins; the order encodes a real
// backend-compatibility decision, so it stays configurable.
type LoginStrategy interface {
	Attempt(ctx context.Context, client *transport.Client, username, password string) (*transport.Response, error)
}

// FormTokenStrategy posts form-encoded credentials to the standards-shaped
// token-issuance endpoint.
type FormTokenStrategy struct {
	Path string
}

// Attempt exchanges credentials via the form endpoint.
func (s FormTokenStrategy) Attempt(ctx context.Context, client *transport.Client, username, password string) (*transport.Response, error) {
	path := s.Path
	if path == "" {
		path = "/token"
	}

	fields := url.Values{}
	fields.Set("username", username)
	fields.Set("password", password)
	return client.PostForm(ctx, path, fields)
}

// JSONLoginStrategy posts JSON credentials to the simplified login endpoint.
type JSONLoginStrategy struct {
	Path string
}

// Attempt exchanges credentials via the JSON endpoint.
func (s JSONLoginStrategy) Attempt(ctx context.Context, client *transport.Client, username, password string) (*transport.Response, error) {
	path := s.Path
	if path == "" {
		path = "/login"
	}

	body := map[string]string{"username": username, "password": password}
	return client.PostJSON(ctx, path, body)
}

// DefaultStrategies returns the order the console ships with: the
// OAuth2-style form endpoint first, then the JSON fallback. The backend may
// deploy either, so neither is assumed.
func DefaultStrategies() []LoginStrategy {
	return []LoginStrategy{
		FormTokenStrategy{},
		JSONLoginStrategy{},
	}
}
