// Package tokens reads identity claims out of access tokens for display
// purposes. It performs no signature verification: the backend remains the
// trust boundary and re-validates the token on every authenticated call.
package tokens

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/accessguard/console/models"
)

// Decode extracts the username and role from an access token's payload
// segment. It returns nil for anything malformed: an empty token, the wrong
// number of segments, invalid base64url, invalid JSON, or a payload without
// a username. It never fails loudly.
func Decode(token string) *models.UserClaims {
	if token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	username, _ := claims["username"].(string)
	if username == "" {
		return nil
	}
	role, _ := claims["role"].(string)

	return &models.UserClaims{
		Username: username,
		Role:     models.Role(role),
	}
}
