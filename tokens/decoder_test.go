package tokens

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accessguard/console/models"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// rawToken builds a three-segment token around a pre-encoded payload.
func rawToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	return header + "." + payload + ".sig"
}

func TestDecodeValidToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"username": "adminuser", "role": "admin"})

	claims := Decode(token)
	require.NotNil(t, claims)
	assert.Equal(t, "adminuser", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestDecodeRoleOptional(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"username": "jdoe"})

	claims := Decode(token)
	require.NotNil(t, claims)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Empty(t, string(claims.Role))
}

func TestDecodeMalformedTokens(t *testing.T) {
	cases := map[string]string{
		"empty string":     "",
		"single segment":   "not-a-token",
		"two segments":     "abc.def",
		"invalid base64":   rawToken("!!!not-base64url!!!"),
		"payload not json": rawToken(base64.RawURLEncoding.EncodeToString([]byte("plain text"))),
		"missing username": signedToken(t, jwt.MapClaims{"role": "admin"}),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, Decode(token))
		})
	}
}
