package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/accessguard/console/models"
)

var errDuplicateAccount = errors.New("username or email already exists")

// tokenResponse is the wire shape of every token-issuing endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "accessguard-stub"})
}

// handleTokenForm implements the OAuth2-style form login (protocol A).
func (s *Server) handleTokenForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed form body")
		return
	}
	s.completeLogin(w, r, r.PostForm.Get("username"), r.PostForm.Get("password"))
}

// handleLoginJSON implements the simplified JSON login (protocol B).
func (s *Server) handleLoginJSON(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	s.completeLogin(w, r, body.Username, body.Password)
}

func (s *Server) completeLogin(w http.ResponseWriter, r *http.Request, username, password string) {
	acct := s.verifyCredentials(username, password)
	if acct == nil {
		attempted := &models.UserClaims{Username: username}
		s.recordRequest(r, attempted, "login_failed")
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access, err := s.issueAccessToken(acct)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Token signing failed")
		return
	}

	s.recordRequest(r, &models.UserClaims{Username: acct.Username, Role: acct.Role}, "login_success")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		TokenType:    "bearer",
		RefreshToken: s.issueRefreshToken(acct),
	})
}

// handleRefresh exchanges a refresh token for a new access token. The
// response deliberately omits a rotated refresh token, matching the
// production backend; clients must keep the one they have.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}

	acct := s.accountForRefreshToken(body.RefreshToken)
	if acct == nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	access, err := s.issueAccessToken(acct)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Token signing failed")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: access, TokenType: "bearer"})
}

// handleLogs serves the audit trail, newest first.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotEvents())
}

// handleCreateUser creates a backend account on behalf of an admin.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var form models.CreateUserForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed JSON body")
		return
	}
	if form.Role == "" {
		form.Role = models.RoleUser
	}
	if errs := form.Validate(); len(errs) > 0 {
		writeDetail(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	acct, err := s.createAccount(form.Username, form.Email, form.Password, form.Role)
	if errors.Is(err, errDuplicateAccount) {
		writeDetail(w, http.StatusBadRequest, "Username or email already exists")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if claims := claimsFromContext(r.Context()); claims != nil {
		s.recordRequest(r, claims, "user_created")
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       acct.ID,
		"username": acct.Username,
		"email":    acct.Email,
		"role":     acct.Role,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeDetail writes an error body in the backend's {"detail": ...} shape.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
