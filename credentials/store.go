package credentials

import "github.com/accessguard/console/models"

// Storage keys for the two halves of the token pair. Absence of the access
// token key means logged out.
const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// Store persists the operator's token pair for the life of a session. The
// session manager is the sole writer; the transport only reads.
type Store interface {
	// Save writes the pair. A pair without an access token is a no-op, so a
	// partial write can never clobber a valid session. An empty refresh
	// token retains the previously stored one (backends may omit it on
	// rotation-free refreshes).
	Save(pair models.TokenPair) error

	// Get returns the stored pair, or nil when no session exists. Absence
	// is not an error.
	Get() (*models.TokenPair, error)

	// Clear removes both tokens. Safe to call when already logged out.
	Clear() error
}
