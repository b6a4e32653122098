package stubserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/accessguard/console/models"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// issueAccessToken signs an HS256 access token carrying the account's
// identity claims plus a unique jti, like the production backend.
func (s *Server) issueAccessToken(acct *account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": acct.Username,
		"role":     string(acct.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenTTL).Unix(),
		"jti":      uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// issueRefreshToken mints an opaque refresh token bound to the account.
func (s *Server) issueRefreshToken(acct *account) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.refreshTokens[token] = acct.Username
	s.mu.Unlock()

	return token
}

// accountForRefreshToken resolves a previously issued refresh token.
func (s *Server) accountForRefreshToken(token string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.refreshTokens[token]
	if !ok {
		return nil
	}
	return s.accounts[username]
}

// bearerClaims verifies the request's bearer token and returns its claims,
// or nil when the token is missing, unsigned by us, or expired.
func (s *Server) bearerClaims(r *http.Request) *models.UserClaims {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	username, _ := claims["username"].(string)
	if username == "" {
		return nil
	}
	role, _ := claims["role"].(string)
	return &models.UserClaims{Username: username, Role: models.Role(role)}
}

// requireAdmin authenticates the bearer token, risk-scores and records the
// request, and rejects anything below the admin role. The error bodies use
// the backend's detail field so the console's extraction order applies.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := s.bearerClaims(r)

		if claims == nil {
			s.recordRequest(r, nil, "api_call")
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if claims.Role != models.RoleAdmin {
			s.recordRequest(r, claims, "access_denied")
			writeDetail(w, http.StatusForbidden, "Admin only")
			return
		}

		s.recordRequest(r, claims, "api_call")

		// Add claims to request context for use in handlers
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// claimsFromContext retrieves the authenticated claims set by requireAdmin.
func claimsFromContext(ctx context.Context) *models.UserClaims {
	claims, _ := ctx.Value(claimsContextKey).(*models.UserClaims)
	return claims
}
