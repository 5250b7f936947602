// banking/models.go
package banking

import (
	"errors"
	"time"
)

// Sentinel errors surfaced to the route layer.
var (
	// ErrTokenMissing means no token record exists for the bank.
	ErrTokenMissing = errors.New("no token found for bank")
	// ErrReauthorizationRequired means the stored token is expired; the
	// full authorization flow must be run again.
	ErrReauthorizationRequired = errors.New("token expired, reauthorization required")
)

// OAuthToken represents token data returned by the bank's token endpoint
type OAuthToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Valid reports whether the token is usable at the given instant: a
// non-empty access token whose expiry is still in the future.
func (t *OAuthToken) Valid(now time.Time) bool {
	return t != nil && t.AccessToken != "" && now.Before(t.ExpiresAt)
}

// TokenStore persists the latest token record per bank. SaveToken
// overwrites any previous record for the same bank.
type TokenStore interface {
	SaveToken(bankName string, token *OAuthToken) error
	GetToken(bankName string) (*OAuthToken, error)
	DeleteToken(bankName string) error
}

// AuthFlow carries the per-attempt authorization state from URL build to
// token exchange. It is written to the caller's cookie session rather than
// held on the service, so concurrent flows cannot clobber each other.
type AuthFlow struct {
	State        string
	CodeVerifier string
}

// OAuthConfig holds the bank's OAuth 2.0 configuration
type OAuthConfig struct {
	BankName     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
}
