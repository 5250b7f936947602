package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dpereira/financas/internal/banking"
	"github.com/dpereira/financas/pkg/bankclient"
)

type memTokenStore struct {
	tokens map[string]*banking.OAuthToken
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]*banking.OAuthToken)}
}

func (s *memTokenStore) SaveToken(bank string, token *banking.OAuthToken) error {
	s.tokens[bank] = token
	return nil
}

func (s *memTokenStore) GetToken(bank string) (*banking.OAuthToken, error) {
	token, ok := s.tokens[bank]
	if !ok {
		return nil, banking.ErrTokenMissing
	}
	return token, nil
}

func (s *memTokenStore) DeleteToken(bank string) error {
	delete(s.tokens, bank)
	return nil
}

// fakeSource serves canned accounts and transactions, with optional
// per-account failures
type fakeSource struct {
	accounts     []bankclient.Account
	accountsErr  error
	transactions map[string][]bankclient.Transaction
	failAccounts map[string]error
}

func (f *fakeSource) GetAccounts(ctx context.Context) ([]bankclient.Account, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeSource) GetTransactions(ctx context.Context, accountID string, window bankclient.DateRange) ([]bankclient.Transaction, error) {
	if err, ok := f.failAccounts[accountID]; ok {
		return nil, err
	}
	return f.transactions[accountID], nil
}

type incomeRow struct {
	description string
	amount      decimal.Decimal
	date        string
}

type expenseRow struct {
	description string
	category    string
	amount      decimal.Decimal
	date        string
}

type fakeRecords struct {
	incomes  []incomeRow
	expenses []expenseRow
}

func (f *fakeRecords) AddEntry(ctx context.Context, description string, amount decimal.Decimal, date string) error {
	f.incomes = append(f.incomes, incomeRow{description, amount, date})
	return nil
}

func (f *fakeRecords) AddExpense(ctx context.Context, description, category string, amount decimal.Decimal, date string) error {
	f.expenses = append(f.expenses, expenseRow{description, category, amount, date})
	return nil
}

func storeWithLiveToken(t *testing.T) *memTokenStore {
	t.Helper()
	store := newMemTokenStore()
	require.NoError(t, store.SaveToken("itau", &banking.OAuthToken{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))
	return store
}

func TestRunClassifiesAndPersists(t *testing.T) {
	source := &fakeSource{
		accounts: []bankclient.Account{{AccountID: "acc-1"}},
		transactions: map[string][]bankclient.Transaction{
			"acc-1": {
				{Description: "SALARIO EMPRESA", Amount: decimal.NewFromInt(500), BookingDate: "2024-01-01", CreditDebitType: "CREDIT"},
				{Description: "UBER TRIP", Amount: decimal.NewFromInt(-75), BookingDate: "2024-01-02", CreditDebitType: "DEBIT"},
			},
		},
	}
	rec := &fakeRecords{}

	imp := New("itau", storeWithLiveToken(t), source, rec, rec, zerolog.Nop())
	result, err := imp.Run(context.Background(), bankclient.DateRange{})
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Empty(t, result.Errors)
	require.Len(t, result.Imported, 2)

	// The credit keeps its amount as reported.
	require.Len(t, rec.incomes, 1)
	require.Equal(t, "[credito] SALARIO EMPRESA", rec.incomes[0].description)
	require.True(t, rec.incomes[0].amount.Equal(decimal.NewFromInt(500)))
	require.Equal(t, "2024-01-01", rec.incomes[0].date)

	// The debit lands as an expense with the amount absolute-valued and a
	// category from the keyword table.
	require.Len(t, rec.expenses, 1)
	require.Equal(t, "[debito] UBER TRIP", rec.expenses[0].description)
	require.True(t, rec.expenses[0].amount.Equal(decimal.NewFromInt(75)))
	require.Equal(t, "transport", rec.expenses[0].category)

	require.Equal(t, "income", result.Imported[0].Type)
	require.Equal(t, "expense", result.Imported[1].Type)
}

func TestRunNonCreditFlagsRouteToExpenses(t *testing.T) {
	source := &fakeSource{
		accounts: []bankclient.Account{{AccountID: "acc-1"}},
		transactions: map[string][]bankclient.Transaction{
			"acc-1": {
				{Description: "TED ENVIADA", Amount: decimal.NewFromInt(-10), BookingDate: "2024-02-01", CreditDebitType: "UNKNOWN"},
			},
		},
	}
	rec := &fakeRecords{}

	imp := New("itau", storeWithLiveToken(t), source, rec, rec, zerolog.Nop())
	result, err := imp.Run(context.Background(), bankclient.DateRange{})
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	require.Empty(t, rec.incomes)
	require.Len(t, rec.expenses, 1)
	require.True(t, rec.expenses[0].amount.Equal(decimal.NewFromInt(10)))
}

func TestRunFailsWithoutToken(t *testing.T) {
	imp := New("itau", newMemTokenStore(), &fakeSource{}, &fakeRecords{}, &fakeRecords{}, zerolog.Nop())

	_, err := imp.Run(context.Background(), bankclient.DateRange{})
	require.Error(t, err)
	require.ErrorIs(t, err, banking.ErrTokenMissing)
	require.Contains(t, err.Error(), "token missing or expired")
}

func TestRunFailsWithExpiredToken(t *testing.T) {
	store := newMemTokenStore()
	require.NoError(t, store.SaveToken("itau", &banking.OAuthToken{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}))

	imp := New("itau", store, &fakeSource{}, &fakeRecords{}, &fakeRecords{}, zerolog.Nop())

	_, err := imp.Run(context.Background(), bankclient.DateRange{})
	require.ErrorIs(t, err, banking.ErrReauthorizationRequired)
}

func TestRunFailsWhenAccountsUnavailable(t *testing.T) {
	rec := &fakeRecords{}

	imp := New("itau", storeWithLiveToken(t), &fakeSource{accountsErr: errors.New("boom")}, rec, rec, zerolog.Nop())
	_, err := imp.Run(context.Background(), bankclient.DateRange{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "accounts unavailable")

	imp = New("itau", storeWithLiveToken(t), &fakeSource{}, rec, rec, zerolog.Nop())
	_, err = imp.Run(context.Background(), bankclient.DateRange{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "accounts unavailable")
}

func TestRunIsolatesPerAccountFailures(t *testing.T) {
	source := &fakeSource{
		accounts: []bankclient.Account{{AccountID: "acc-1"}, {AccountID: "acc-2"}},
		transactions: map[string][]bankclient.Transaction{
			"acc-1": {
				{Description: "MERCADO BOM PRECO", Amount: decimal.NewFromInt(-30), BookingDate: "2024-03-01", CreditDebitType: "DEBIT"},
			},
		},
		failAccounts: map[string]error{
			"acc-2": errors.New("bank API returned status 500"),
		},
	}
	rec := &fakeRecords{}

	imp := New("itau", storeWithLiveToken(t), source, rec, rec, zerolog.Nop())
	result, err := imp.Run(context.Background(), bankclient.DateRange{})
	require.NoError(t, err, "one failing account must not abort the run")

	require.Len(t, result.Imported, 1)
	require.Len(t, rec.expenses, 1)
	require.Equal(t, "food", rec.expenses[0].category)

	require.Len(t, result.Errors, 1)
	require.Equal(t, "acc-2", result.Errors[0].AccountID)
	require.Contains(t, result.Errors[0].Message, "500")
}
