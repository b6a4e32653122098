// Package admin drives the backend's admin-only operations on behalf of a
// signed-in operator.
package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/accessguard/console/models"
	"github.com/accessguard/console/transport"
)

const createUserPath = "/admin/users/create"

// User is the backend's representation of a created account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Service wraps the admin endpoints.
type Service struct {
	client *transport.Client
}

// NewService creates an admin service on top of the authenticated transport.
func NewService(client *transport.Client) *Service {
	return &Service{client: client}
}

// CreateUser creates a backend account. Failures carry the backend's detail
// or error message when one is present, else a status fallback.
func (s *Service) CreateUser(ctx context.Context, form models.CreateUserForm) (*User, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, errors.New(strings.Join(errs, "; "))
	}

	resp, err := s.client.PostJSON(ctx, createUserPath, form)
	if err != nil {
		return nil, err
	}

	if resp.OK() {
		var user User
		if err := resp.DecodeInto(&user); err == nil && user.ID != 0 {
			return &user, nil
		}
	}
	return nil, errors.New(resp.ErrorMessage())
}
