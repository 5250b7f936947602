package records

import (
	"github.com/shopspring/decimal"
)

// Entry is one income record
type Entry struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// Expense is one categorized spending record
type Expense struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// Debt is one outstanding debt record
type Debt struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"due_date"`
	Date        string          `json:"date"`
}

// FixedBill is one recurring monthly bill, unique by name
type FixedBill struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Document is a stored receipt or paycheck file without its content
type Document struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
	Month       string `json:"month"`
	Filename    string `json:"filename"`
	UploadedAt  string `json:"uploaded_at"`
}

// Summary is the totals view of the whole ledger. Expenses includes fixed
// bills; Balance is entries minus expenses.
type Summary struct {
	Entries  decimal.Decimal `json:"entradas"`
	Expenses decimal.Decimal `json:"gastos"`
	Fixed    decimal.Decimal `json:"fixas"`
	Debts    decimal.Decimal `json:"dividas"`
	Balance  decimal.Decimal `json:"saldo"`
	Tips     []string        `json:"dicas"`
}

// ChartData is the per-category expense breakdown for the front end
type ChartData struct {
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"valores"`
}
