package bankclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dpereira/financas/internal/banking"
)

// memTokenStore is an in-memory banking.TokenStore for tests
type memTokenStore struct {
	tokens map[string]*banking.OAuthToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]*banking.OAuthToken)}
}

func (s *memTokenStore) SaveToken(bankName string, token *banking.OAuthToken) error {
	s.tokens[bankName] = token
	return nil
}

func (s *memTokenStore) GetToken(bankName string) (*banking.OAuthToken, error) {
	token, ok := s.tokens[bankName]
	if !ok {
		return nil, banking.ErrTokenMissing
	}
	return token, nil
}

func (s *memTokenStore) DeleteToken(bankName string) error {
	delete(s.tokens, bankName)
	return nil
}

func newTestClient(t *testing.T, baseURL string, store banking.TokenStore) *Client {
	t.Helper()
	svc := banking.NewService(banking.OAuthConfig{
		BankName:     "itau",
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost/cb",
		AuthURL:      "https://sts.example.com",
		TokenURL:     "https://sts.example.com/token",
		APIBaseURL:   baseURL,
	}, store, zerolog.Nop())

	client, err := NewClient(baseURL, svc, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func liveToken() *banking.OAuthToken {
	return &banking.OAuthToken{
		AccessToken: "live-token",
		TokenType:   "Bearer",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestGetAccountsWithoutTokenMakesNoNetworkCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, newMemTokenStore())

	_, err := client.GetAccounts(context.Background())
	require.ErrorIs(t, err, banking.ErrTokenMissing)
	require.Zero(t, calls, "no request may reach the bank without a token")
}

func TestGetAccountsWithExpiredTokenMakesNoNetworkCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	store := newMemTokenStore()
	require.NoError(t, store.SaveToken("itau", &banking.OAuthToken{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}))

	client := newTestClient(t, server.URL, store)

	_, err := client.GetAccounts(context.Background())
	require.ErrorIs(t, err, banking.ErrReauthorizationRequired)
	require.Zero(t, calls)
}

func TestGetAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/open-banking/accounts/v1/accounts", r.URL.Path)
		require.Equal(t, "Bearer live-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"accounts":[
			{"accountId":"acc-1","type":"CHECKING","currency":"BRL","number":"12345-6"},
			{"accountId":"acc-2","type":"SAVINGS","currency":"BRL","number":"65432-1"}
		]}}`))
	}))
	defer server.Close()

	store := newMemTokenStore()
	require.NoError(t, store.SaveToken("itau", liveToken()))
	client := newTestClient(t, server.URL, store)

	accounts, err := client.GetAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, "acc-1", accounts[0].AccountID)
	require.Equal(t, "SAVINGS", accounts[1].Type)
}

func TestGetAccountsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	}))
	defer server.Close()

	store := newMemTokenStore()
	require.NoError(t, store.SaveToken("itau", liveToken()))
	client := newTestClient(t, server.URL, store)

	_, err := client.GetAccounts(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 403")
}

func TestGetTransactionsDefaultWindow(t *testing.T) {
	var gotFrom, gotTo string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/open-banking/accounts/v1/accounts/acc-1/transactions", r.URL.Path)
		gotFrom = r.URL.Query().Get("fromBookingDate")
		gotTo = r.URL.Query().Get("toBookingDate")
		w.Write([]byte(`{"data":{"transactions":[
			{"transactionId":"t1","description":"IFOOD RESTAURANTE","amount":-42.50,"bookingDate":"2024-01-02","creditDebitType":"DEBIT"}
		]}}`))
	}))
	defer server.Close()

	store := newMemTokenStore()
	require.NoError(t, store.SaveToken("itau", liveToken()))
	client := newTestClient(t, server.URL, store)

	transactions, err := client.GetTransactions(context.Background(), "acc-1", DateRange{})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.True(t, transactions[0].Amount.Equal(decimal.RequireFromString("-42.5")))

	now := time.Now()
	require.Equal(t, now.AddDate(0, 0, -30).Format("2006-01-02"), gotFrom)
	require.Equal(t, now.Format("2006-01-02"), gotTo)
}

func TestGetTransactionsExplicitWindow(t *testing.T) {
	var gotFrom, gotTo string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("fromBookingDate")
		gotTo = r.URL.Query().Get("toBookingDate")
		w.Write([]byte(`{"data":{"transactions":[]}}`))
	}))
	defer server.Close()

	store := newMemTokenStore()
	require.NoError(t, store.SaveToken("itau", liveToken()))
	client := newTestClient(t, server.URL, store)

	window := DateRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	_, err := client.GetTransactions(context.Background(), "acc-1", window)
	require.NoError(t, err)
	require.Equal(t, "2024-01-01", gotFrom)
	require.Equal(t, "2024-01-31", gotTo)
}

func TestDateRangeOrDefault(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	full := DateRange{}.OrDefault(now)
	require.Equal(t, "2024-05-16", full.FromBookingDate())
	require.Equal(t, "2024-06-15", full.ToBookingDate())

	partial := DateRange{From: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}.OrDefault(now)
	require.Equal(t, "2024-06-01", partial.FromBookingDate())
	require.Equal(t, "2024-06-15", partial.ToBookingDate())
}
