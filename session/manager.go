// Package session orchestrates the operator's credential lifecycle: login
// over an ordered list of protocols, explicit refresh, and logout.
package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/accessguard/console/credentials"
	"github.com/accessguard/console/models"
	"github.com/accessguard/console/tokens"
	"github.com/accessguard/console/transport"
)

const refreshPath = "/refresh"

// Manager owns the session state. It is the sole writer of the credential
// store; everything else only reads it.
type Manager struct {
	store      credentials.Store
	client     *transport.Client
	strategies []LoginStrategy
}

// NewManager creates a session manager. An empty strategy list falls back to
// DefaultStrategies.
func NewManager(store credentials.Store, client *transport.Client, strategies []LoginStrategy) *Manager {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Manager{
		store:      store,
		client:     client,
		strategies: strategies,
	}
}

// Login tries each strategy in order with the same credentials and persists
// the first token pair returned with a 2xx status. When every strategy
// fails, the error carries the first structured backend message available,
// falling back to a generic one. The error never says which protocol failed.
// A transport fault aborts immediately without trying further strategies.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.UserClaims, error) {
	var backendMsg string

	for _, strategy := range m.strategies {
		resp, err := strategy.Attempt(ctx, m.client, username, password)
		if err != nil {
			return nil, err
		}

		if resp.OK() {
			var token oauth2.Token
			if err := resp.DecodeInto(&token); err == nil && token.AccessToken != "" {
				pair := models.TokenPair{
					AccessToken:  token.AccessToken,
					RefreshToken: token.RefreshToken,
				}
				if err := m.store.Save(pair); err != nil {
					return nil, fmt.Errorf("failed to persist session: %w", err)
				}
				return tokens.Decode(token.AccessToken), nil
			}
		}

		if backendMsg == "" {
			backendMsg = resp.BackendError()
		}
	}

	if backendMsg == "" {
		backendMsg = "Login failed"
	}
	return nil, errors.New(backendMsg)
}

// Logout clears the stored credential pair. It is idempotent and succeeds
// regardless of the prior state.
func (m *Manager) Logout() error {
	return m.store.Clear()
}

// Refresh exchanges the stored refresh token for a new access token. With no
// refresh token stored it returns (nil, nil) without contacting the backend.
// On any failure the existing session is left untouched: an unrefreshable
// but unexpired access token stays usable until the backend rejects it.
func (m *Manager) Refresh(ctx context.Context) (*models.TokenPair, error) {
	pair, err := m.store.Get()
	if err != nil {
		return nil, err
	}
	if pair == nil || pair.RefreshToken == "" {
		return nil, nil
	}

	resp, err := m.client.PostJSON(ctx, refreshPath, map[string]string{"refresh_token": pair.RefreshToken})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, nil
	}

	var token oauth2.Token
	if err := resp.DecodeInto(&token); err != nil || token.AccessToken == "" {
		return nil, nil
	}

	next := models.TokenPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if err := m.store.Save(next); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed session: %w", err)
	}

	// Re-read so the returned pair reflects a retained refresh token when
	// the backend omitted it
	return m.store.Get()
}

// CurrentUser derives the operator's claims from the stored access token.
// It returns nil when logged out or when the token is undecodable.
func (m *Manager) CurrentUser() *models.UserClaims {
	pair, err := m.store.Get()
	if err != nil || pair == nil {
		return nil
	}
	return tokens.Decode(pair.AccessToken)
}
