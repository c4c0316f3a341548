package session

import "context"

// Persisted storage keys.
const (
	KeyAccessToken     = "googleAccessToken"
	KeyTokenExpiration = "tokenExpiration"
	KeyGoogleID        = "googleId"
	KeyLoggedOut       = "loggedOut"
	KeyRefreshToken    = "googleRefreshToken"
	KeyBackendCookie   = "backendCookie"
)

// Storage is durable string key/value storage.
//
// [repositories.KVRepository] is the production implementation.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Clear() error
}

// Token is an access token returned by the backend.
//
// ExpiresIn is zero when the endpoint does not report a lifetime.
type Token struct {
	AccessToken string
	ExpiresIn   int64 // seconds
	GoogleID    string
}

// TokenClient performs the two token round trips against the backend.
//
// Implementations wrap non-success HTTP responses with [shared.ErrAPIRequest].
// Any other error is treated as a network failure.
type TokenClient interface {
	// FetchToken calls GET /auth/token with the stored backend cookie.
	FetchToken(ctx context.Context, cookie string) (Token, error)
	// RefreshToken calls POST /refresh-token for googleID.
	RefreshToken(ctx context.Context, googleID string) (Token, error)
}
