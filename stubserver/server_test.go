package stubserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accessguard/console/admin"
	"github.com/accessguard/console/credentials"
	"github.com/accessguard/console/models"
	"github.com/accessguard/console/poller"
	"github.com/accessguard/console/session"
	"github.com/accessguard/console/transport"
)

type consoleHarness struct {
	store   *credentials.MemoryStore
	client  *transport.Client
	manager *session.Manager
}

func newHarness(t *testing.T) *consoleHarness {
	t.Helper()

	server := httptest.NewServer(New("test-secret").Router())
	t.Cleanup(server.Close)

	store := credentials.NewMemoryStore()
	client := transport.NewClient(server.URL, store, nil)
	return &consoleHarness{
		store:   store,
		client:  client,
		manager: session.NewManager(store, client, nil),
	}
}

func (h *consoleHarness) loginAsAdmin(t *testing.T) *models.UserClaims {
	t.Helper()
	claims, err := h.manager.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, claims)
	return claims
}

func TestLoginIssuesDecodableAdminToken(t *testing.T) {
	h := newHarness(t)

	claims := h.loginAsAdmin(t)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	pair, err := h.store.Get()
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.RefreshToken)

	// The persisted token decodes to the same identity
	current := h.manager.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, claims, current)
}

func TestWrongPasswordSurfacesInvalidCredentials(t *testing.T) {
	h := newHarness(t)

	claims, err := h.manager.Login(context.Background(), "admin", "wrong")
	assert.Nil(t, claims)
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestPollSeesAuditTrail(t *testing.T) {
	h := newHarness(t)
	h.loginAsAdmin(t)

	p := poller.New(h.client, 10*time.Millisecond, nil)
	snapshots := make(chan models.PollSnapshot, 1)
	p.Start(func(s models.PollSnapshot) {
		select {
		case snapshots <- s:
		default:
		}
	})
	defer p.Stop()

	var snapshot models.PollSnapshot
	select {
	case snapshot = <-snapshots:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a snapshot")
	}

	require.True(t, snapshot.OK())
	require.NotEmpty(t, snapshot.Events)
	// Newest first: the /admin/logs call itself precedes the login event
	assert.Equal(t, "/admin/logs", snapshot.Events[0].Endpoint)
	assert.Equal(t, "api_call", snapshot.Events[0].EventType)

	last := snapshot.Events[len(snapshot.Events)-1]
	assert.Equal(t, "login_success", last.EventType)
	assert.Greater(t, snapshot.MaxRiskScore, 0)
}

func TestPollWithoutTokenIsRejected(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.Get(context.Background(), "/admin/logs", "")
	require.NoError(t, err)
	assert.Equal(t, 401, resp.Status)
	assert.Equal(t, "Not authenticated", resp.BackendError())
}

func TestNonAdminIsForbidden(t *testing.T) {
	h := newHarness(t)
	h.loginAsAdmin(t)

	service := admin.NewService(h.client)
	_, err := service.CreateUser(context.Background(), models.CreateUserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "hunter2",
		Role:     models.RoleUser,
	})
	require.NoError(t, err)

	// Re-login as the plain user and hit an admin endpoint
	claims, err := h.manager.Login(context.Background(), "jdoe", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, claims.Role)

	resp, err := h.client.Get(context.Background(), "/admin/logs", "")
	require.NoError(t, err)
	assert.Equal(t, 403, resp.Status)
	assert.Equal(t, "Admin only", resp.BackendError())
}

func TestRefreshKeepsRefreshToken(t *testing.T) {
	h := newHarness(t)
	h.loginAsAdmin(t)

	before, err := h.store.Get()
	require.NoError(t, err)
	require.NotNil(t, before)

	// Tokens carry second-resolution iat/exp, so a same-second refresh may
	// mint an identical access token. Assert on the refresh half instead.
	pair, err := h.manager.Refresh(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, before.RefreshToken, pair.RefreshToken)
}

func TestRefreshWithUnknownTokenFails(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Save(models.TokenPair{AccessToken: "stale", RefreshToken: "unknown"}))

	pair, err := h.manager.Refresh(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pair)

	// The stale session is left untouched
	stored, err := h.store.Get()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "stale", stored.AccessToken)
}

func TestCreateDuplicateUserSurfacesDetail(t *testing.T) {
	h := newHarness(t)
	h.loginAsAdmin(t)

	service := admin.NewService(h.client)
	form := models.CreateUserForm{
		Username: "admin",
		Email:    "other@accessguard.local",
		Password: "hunter2",
		Role:     models.RoleUser,
	}

	_, err := service.CreateUser(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, "Username or email already exists", err.Error())
}

func TestSuspiciousHeaderFlagsEvent(t *testing.T) {
	srv := New("test-secret")
	router := srv.Router()

	token, err := srv.issueAccessToken(srv.accounts["admin"])
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin/logs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Suspicious", "1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code)

	events := srv.snapshotEvents()
	require.NotEmpty(t, events)
	assert.True(t, events[0].Suspicious)
	assert.Equal(t, "/admin/logs", events[0].Endpoint)
}
