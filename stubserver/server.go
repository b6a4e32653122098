// Package stubserver is an in-memory AccessGuard backend emulator for local
// development and tests. It issues real HS256 tokens, risk-scores every
// authenticated request, and serves the resulting audit trail the same way
// the production backend does.
package stubserver

import (
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/accessguard/console/models"
)

const (
	accessTokenTTL = 30 * time.Minute

	// maxEvents caps the retained audit trail
	maxEvents = 500
)

// account is a backend user record.
type account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	Role         models.Role
}

// Server holds the emulator's state. All maps are guarded by mu.
type Server struct {
	secret []byte

	mu            sync.Mutex
	accounts      map[string]*account
	refreshTokens map[string]string // refresh token -> username
	events        []models.AuditEvent
	requestCounts map[string]int
	nextUserID    int64
	nextEventID   int64
}

// New creates a stub backend signing tokens with the given secret and seeds
// the default admin account (admin / admin123).
func New(secret string) *Server {
	s := &Server{
		secret:        []byte(secret),
		accounts:      make(map[string]*account),
		refreshTokens: make(map[string]string),
		requestCounts: make(map[string]int),
	}
	if _, err := s.createAccount("admin", "admin@accessguard.local", "admin123", models.RoleAdmin); err != nil {
		// bcrypt only fails on absurd cost/length; the seed values are fixed
		panic(err)
	}
	return s
}

// Router returns the HTTP surface of the emulator.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	// PUBLIC ROUTES (no authentication required)
	r.Get("/health", s.handleHealth)
	r.Post("/token", s.handleTokenForm)
	r.Post("/login", s.handleLoginJSON)
	r.Post("/refresh", s.handleRefresh)

	// ADMIN ROUTES (bearer auth, admin role)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/admin/logs", s.handleLogs)
		r.Post("/admin/users/create", s.handleCreateUser)
	})

	return r
}

// createAccount registers a user; it fails when the username or email is
// already taken.
func (s *Server) createAccount(username, email, password string, role models.Role) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Username == username || (email != "" && existing.Email == email) {
			return nil, errDuplicateAccount
		}
	}

	s.nextUserID++
	acct := &account{
		ID:           s.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	s.accounts[username] = acct
	return acct, nil
}

// verifyCredentials returns the account when the password matches.
func (s *Server) verifyCredentials(username, password string) *account {
	s.mu.Lock()
	acct := s.accounts[username]
	s.mu.Unlock()

	if acct == nil {
		return nil
	}
	if bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)) != nil {
		return nil
	}
	return acct
}

// snapshotEvents returns the audit trail newest first.
func (s *Server) snapshotEvents() []models.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}
