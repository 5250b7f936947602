// bankclient/models.go
package bankclient

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditDebitType values reported by the bank per transaction.
const (
	CreditIndicator = "CREDIT"
	DebitIndicator  = "DEBIT"
)

// Account is one account entry from the accounts endpoint
type Account struct {
	AccountID string `json:"accountId"`
	Type      string `json:"type"`
	Currency  string `json:"currency"`
	Number    string `json:"number"`
}

// AccountsResponse is the accounts endpoint envelope
type AccountsResponse struct {
	Data struct {
		Accounts []Account `json:"accounts"`
	} `json:"data"`
}

// Transaction is one booked transaction from the transactions endpoint.
// Amounts are decimal to avoid float drift on monetary values.
type Transaction struct {
	TransactionID   string          `json:"transactionId"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	BookingDate     string          `json:"bookingDate"`
	CreditDebitType string          `json:"creditDebitType"`
}

// TransactionsResponse is the transactions endpoint envelope
type TransactionsResponse struct {
	Data struct {
		Transactions []Transaction `json:"transactions"`
	} `json:"data"`
}

// DateRange is a typed booking-date window for transaction queries.
type DateRange struct {
	From time.Time
	To   time.Time
}

// OrDefault fills zero bounds: From defaults to 30 days before now, To to
// now.
func (r DateRange) OrDefault(now time.Time) DateRange {
	if r.From.IsZero() {
		r.From = now.AddDate(0, 0, -30)
	}
	if r.To.IsZero() {
		r.To = now
	}
	return r
}

// FromBookingDate renders the lower bound as a calendar date
func (r DateRange) FromBookingDate() string {
	return r.From.Format("2006-01-02")
}

// ToBookingDate renders the upper bound as a calendar date
func (r DateRange) ToBookingDate() string {
	return r.To.Format("2006-01-02")
}
