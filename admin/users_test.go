package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accessguard/console/credentials"
	"github.com/accessguard/console/models"
	"github.com/accessguard/console/transport"
)

func newService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewService(transport.NewClient(server.URL, credentials.NewMemoryStore(), nil))
}

func validForm() models.CreateUserForm {
	return models.CreateUserForm{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "hunter2",
		Role:     models.RoleUser,
	}
}

func TestCreateUserSuccess(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/users/create", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":3,"username":"jdoe","email":"jdoe@example.com","role":"user"}`))
	})

	user, err := service.CreateUser(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "jdoe", user.Username)
}

func TestCreateUserDuplicateSurfacesDetail(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Username or email already exists"}`))
	})

	user, err := service.CreateUser(context.Background(), validForm())

	assert.Nil(t, user)
	require.Error(t, err)
	assert.Equal(t, "Username or email already exists", err.Error())
}

func TestCreateUserMissingIDIsFailure(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"username":"jdoe"}`))
	})

	user, err := service.CreateUser(context.Background(), validForm())

	assert.Nil(t, user)
	require.Error(t, err)
	assert.Equal(t, "Status 200", err.Error())
}

func TestCreateUserValidatesLocally(t *testing.T) {
	service := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Invalid forms must not reach the backend")
	})

	form := models.CreateUserForm{Email: "not-an-email"}
	user, err := service.CreateUser(context.Background(), form)

	assert.Nil(t, user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username is required")
}
