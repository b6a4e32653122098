package models

// Role is the access level carried in a token's claims.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one the backend issues.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// TokenPair is the operator's current credential pair. It is owned by the
// credential store: overwritten wholesale on login/refresh, cleared on
// logout.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// UserClaims are the identity attributes decoded from an access token's
// payload. They are always derived from the current token, never cached.
type UserClaims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
