// banking/service.go
package banking

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Service handles the OAuth 2.0 authorization-code flow with PKCE against
// the bank's authorization server.
type Service struct {
	config     OAuthConfig
	tokenStore TokenStore
	httpClient *http.Client
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a new banking auth service
func NewService(config OAuthConfig, tokenStore TokenStore, log zerolog.Logger) *Service {
	return &Service{
		config:     config,
		tokenStore: tokenStore,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log.With().Str("component", "banking").Str("bank", config.BankName).Logger(),
		now:        time.Now,
	}
}

// AuthorizationURL composes the bank's authorization URL with a fresh PKCE
// verifier/challenge pair and a random state. The returned AuthFlow must be
// retained by the caller for the follow-up exchange; building a second URL
// starts an independent flow. No network call is made.
func (s *Service) AuthorizationURL() (string, AuthFlow, error) {
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		return "", AuthFlow{}, fmt.Errorf("generate code verifier: %w", err)
	}
	state, err := GenerateState()
	if err != nil {
		return "", AuthFlow{}, fmt.Errorf("generate state: %w", err)
	}

	u, err := url.Parse(s.config.AuthURL)
	if err != nil {
		return "", AuthFlow{}, fmt.Errorf("parse auth URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/authorize"

	q := u.Query()
	q.Set("client_id", s.config.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(s.config.Scopes, " "))
	q.Set("redirect_uri", s.config.RedirectURI)
	q.Set("code_challenge", GenerateCodeChallenge(verifier))
	q.Set("code_challenge_method", "S256")
	q.Set("state", state)
	u.RawQuery = q.Encode()

	return u.String(), AuthFlow{State: state, CodeVerifier: verifier}, nil
}

// ExchangeCode trades an authorization code and its PKCE verifier for an
// access token. On success the token carries an absolute expiry computed
// from the server-reported lifetime. The token is not persisted here; the
// caller upserts it into the token store.
func (s *Service) ExchangeCode(ctx context.Context, code, codeVerifier string) (*OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", s.config.ClientID)
	data.Set("client_secret", s.config.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", s.config.RedirectURI)
	data.Set("code_verifier", codeVerifier)

	token, err := s.executeTokenRequest(ctx, data)
	if err != nil {
		return nil, err
	}

	token.ExpiresAt = s.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return token, nil
}

// HandleCallback processes the redirect callback: exchanges the code and
// persists the resulting token record for the configured bank.
func (s *Service) HandleCallback(ctx context.Context, code, codeVerifier string) (*OAuthToken, error) {
	token, err := s.ExchangeCode(ctx, code, codeVerifier)
	if err != nil {
		return nil, err
	}

	if err := s.tokenStore.SaveToken(s.config.BankName, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	return token, nil
}

// executeTokenRequest performs the actual token request to the bank
func (s *Service) executeTokenRequest(ctx context.Context, data url.Values) (*OAuthToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Add("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.log.Error().Int("status", resp.StatusCode).Bytes("body", body).Msg("Token exchange rejected")
		return nil, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, body)
	}

	var token OAuthToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	return &token, nil
}

// ValidToken loads the persisted token for the configured bank and checks
// it is still usable. There is no refresh grant in this integration; an
// expired token means the whole authorization flow must be re-run.
func (s *Service) ValidToken(ctx context.Context) (*OAuthToken, error) {
	token, err := s.tokenStore.GetToken(s.config.BankName)
	if err != nil {
		return nil, ErrTokenMissing
	}

	if !token.Valid(s.now()) {
		return nil, ErrReauthorizationRequired
	}

	return token, nil
}

// Disconnect removes the persisted token record for the configured bank.
func (s *Service) Disconnect(ctx context.Context) error {
	return s.tokenStore.DeleteToken(s.config.BankName)
}

// BankName returns the configured bank identifier.
func (s *Service) BankName() string {
	return s.config.BankName
}
