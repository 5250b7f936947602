// bankclient/client.go
package bankclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/dpereira/financas/internal/banking"
)

// Client is the bearer-authenticated open-banking API client
type Client struct {
	baseURL     string
	authService *banking.Service
	httpClient  *http.Client
	log         zerolog.Logger
	now         func() time.Time
}

// Option configures a Client
type Option func(*Client) error

// WithClientCertificate configures mutual TLS with the given PEM-encoded
// certificate and private key files. Open-banking deployments commonly
// require this at the transport layer.
func WithClientCertificate(certPath, keyPath string) Option {
	return func(c *Client) error {
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			return fmt.Errorf("load client certificate: %w", err)
		}
		transport := &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion:   tls.VersionTLS12,
				Certificates: []tls.Certificate{cert},
			},
		}
		c.httpClient.Transport = transport
		return nil
	}
}

// WithTimeout sets the outbound request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.httpClient.Timeout = d
		return nil
	}
}

// NewClient creates a new open-banking API client
func NewClient(baseURL string, authService *banking.Service, log zerolog.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:     baseURL,
		authService: authService,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		log:         log.With().Str("component", "bankclient").Logger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// GetAccounts fetches the user's accounts. The stored token is validated
// before any network call; a missing or expired token fails immediately.
func (c *Client) GetAccounts(ctx context.Context) ([]Account, error) {
	endpoint := c.baseURL + "/open-banking/accounts/v1/accounts"

	resp, err := c.sendRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload AccountsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse accounts response: %w", err)
	}

	return payload.Data.Accounts, nil
}

// GetTransactions fetches booked transactions for one account within the
// given window. A zero DateRange defaults to the trailing 30 days.
func (c *Client) GetTransactions(ctx context.Context, accountID string, window DateRange) ([]Transaction, error) {
	window = window.OrDefault(c.now())

	endpoint := fmt.Sprintf("%s/open-banking/accounts/v1/accounts/%s/transactions",
		c.baseURL, url.PathEscape(accountID))

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to build transactions URL: %w", err)
	}
	q := u.Query()
	q.Set("fromBookingDate", window.FromBookingDate())
	q.Set("toBookingDate", window.ToBookingDate())
	u.RawQuery = q.Encode()

	resp, err := c.sendRequest(ctx, http.MethodGet, u.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload TransactionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse transactions response: %w", err)
	}

	return payload.Data.Transactions, nil
}

// sendRequest makes a bearer-authenticated request to the bank API
func (c *Client) sendRequest(ctx context.Context, method, endpoint string) (*http.Response, error) {
	token, err := c.authService.ValidToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	req.Header.Set("Authorization", fmt.Sprintf("%s %s", tokenType, token.AccessToken))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		c.log.Error().Int("status", resp.StatusCode).Str("endpoint", endpoint).
			Bytes("body", body).Msg("Bank API error")
		return nil, fmt.Errorf("bank API returned status %d: %s", resp.StatusCode, body)
	}

	return resp, nil
}
