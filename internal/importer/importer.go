// importer/importer.go
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dpereira/financas/internal/banking"
	"github.com/dpereira/financas/pkg/bankclient"
)

// Description prefixes marking imported rows in the record stores.
const (
	incomeMarker  = "[credito] "
	expenseMarker = "[debito] "
)

// AccountSource fetches accounts and their transactions from the bank
type AccountSource interface {
	GetAccounts(ctx context.Context) ([]bankclient.Account, error)
	GetTransactions(ctx context.Context, accountID string, window bankclient.DateRange) ([]bankclient.Transaction, error)
}

// IncomeStore receives credit transactions
type IncomeStore interface {
	AddEntry(ctx context.Context, description string, amount decimal.Decimal, date string) error
}

// ExpenseStore receives debit transactions
type ExpenseStore interface {
	AddExpense(ctx context.Context, description, category string, amount decimal.Decimal, date string) error
}

// ImportedTransaction is one classified transaction in the import result
type ImportedTransaction struct {
	AccountID   string          `json:"account_id"`
	Description string          `json:"description"`
	Type        string          `json:"type"` // "income" or "expense"
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	BookingDate string          `json:"booking_date"`
}

// AccountError reports a per-account fetch failure that did not abort the run
type AccountError struct {
	AccountID string `json:"account_id"`
	Message   string `json:"message"`
}

// Result is the outcome of one import run. Errors lists accounts whose
// transactions could not be fetched or stored; their absence from Imported
// does not undo writes for accounts processed earlier.
type Result struct {
	RunID    string                `json:"run_id"`
	Imported []ImportedTransaction `json:"imported"`
	Errors   []AccountError        `json:"errors,omitempty"`
}

// Importer pulls bank transactions and files them into the record stores
type Importer struct {
	bankName string
	tokens   banking.TokenStore
	source   AccountSource
	incomes  IncomeStore
	expenses ExpenseStore
	log      zerolog.Logger
	now      func() time.Time
}

// New creates a new transaction importer
func New(bankName string, tokens banking.TokenStore, source AccountSource, incomes IncomeStore, expenses ExpenseStore, log zerolog.Logger) *Importer {
	return &Importer{
		bankName: bankName,
		tokens:   tokens,
		source:   source,
		incomes:  incomes,
		expenses: expenses,
		log:      log.With().Str("component", "importer").Str("bank", bankName).Logger(),
		now:      time.Now,
	}
}

// Run imports transactions for every account within the window. The stored
// token is checked here as well as inside the client; the import should not
// start half-authorized. Accounts are fetched sequentially, and a failure
// on one account is recorded and skipped rather than aborting the run.
func (i *Importer) Run(ctx context.Context, window bankclient.DateRange) (*Result, error) {
	token, err := i.tokens.GetToken(i.bankName)
	if err != nil {
		return nil, fmt.Errorf("token missing or expired: %w", err)
	}
	if !token.Valid(i.now()) {
		return nil, fmt.Errorf("token missing or expired: %w", banking.ErrReauthorizationRequired)
	}

	accounts, err := i.source.GetAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("accounts unavailable: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("accounts unavailable: bank returned no accounts")
	}

	result := &Result{RunID: uuid.New().String()}

	for _, account := range accounts {
		transactions, err := i.source.GetTransactions(ctx, account.AccountID, window)
		if err != nil {
			i.log.Error().Err(err).Str("account_id", account.AccountID).
				Msg("Failed to fetch transactions, skipping account")
			result.Errors = append(result.Errors, AccountError{
				AccountID: account.AccountID,
				Message:   err.Error(),
			})
			continue
		}

		for _, tx := range transactions {
			imported, err := i.fileTransaction(ctx, account.AccountID, tx)
			if err != nil {
				i.log.Error().Err(err).Str("account_id", account.AccountID).
					Str("description", tx.Description).Msg("Failed to store transaction")
				result.Errors = append(result.Errors, AccountError{
					AccountID: account.AccountID,
					Message:   err.Error(),
				})
				continue
			}
			result.Imported = append(result.Imported, imported)
		}
	}

	i.log.Info().Str("run_id", result.RunID).Int("imported", len(result.Imported)).
		Int("failed_accounts", len(result.Errors)).Msg("Import finished")

	return result, nil
}

// fileTransaction classifies one transaction and writes it to the matching
// store. Credits keep their amount as reported; anything else is an expense
// with the amount normalized to its absolute value.
func (i *Importer) fileTransaction(ctx context.Context, accountID string, tx bankclient.Transaction) (ImportedTransaction, error) {
	if tx.CreditDebitType == bankclient.CreditIndicator {
		description := incomeMarker + tx.Description
		if err := i.incomes.AddEntry(ctx, description, tx.Amount, tx.BookingDate); err != nil {
			return ImportedTransaction{}, err
		}
		return ImportedTransaction{
			AccountID:   accountID,
			Description: description,
			Type:        "income",
			Amount:      tx.Amount,
			BookingDate: tx.BookingDate,
		}, nil
	}

	description := expenseMarker + tx.Description
	amount := tx.Amount.Abs()
	category := Categorize(tx.Description)
	if err := i.expenses.AddExpense(ctx, description, category, amount, tx.BookingDate); err != nil {
		return ImportedTransaction{}, err
	}
	return ImportedTransaction{
		AccountID:   accountID,
		Description: description,
		Type:        "expense",
		Category:    category,
		Amount:      amount,
		BookingDate: tx.BookingDate,
	}, nil
}
