package records

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// AddEntry inserts an income record. An empty date takes the current time.
func (s *Store) AddEntry(ctx context.Context, description string, amount decimal.Decimal, date string) error {
	var err error
	if date == "" {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO entries (description, amount) VALUES (?, ?)",
			description, amount.String())
	} else {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO entries (description, amount, date) VALUES (?, ?, ?)",
			description, amount.String(), date)
	}
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// AddExpense inserts a categorized spending record
func (s *Store) AddExpense(ctx context.Context, description, category string, amount decimal.Decimal, date string) error {
	if category == "" {
		category = "other"
	}
	var err error
	if date == "" {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO expenses (description, category, amount) VALUES (?, ?, ?)",
			description, category, amount.String())
	} else {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO expenses (description, category, amount, date) VALUES (?, ?, ?, ?)",
			description, category, amount.String(), date)
	}
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// AddDebt inserts a debt record
func (s *Store) AddDebt(ctx context.Context, description string, amount decimal.Decimal, dueDate string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO debts (description, amount, due_date) VALUES (?, ?, ?)",
		description, amount.String(), dueDate)
	if err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}
	return nil
}

// UpsertFixedBill creates or replaces a recurring bill by name
func (s *Store) UpsertFixedBill(ctx context.Context, name string, amount decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fixed_bills (name, amount) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET amount = excluded.amount`,
		name, amount.String())
	if err != nil {
		return fmt.Errorf("upsert fixed bill: %w", err)
	}
	return nil
}

// ListFixedBills returns all recurring bills
func (s *Store) ListFixedBills(ctx context.Context) ([]FixedBill, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, amount FROM fixed_bills ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list fixed bills: %w", err)
	}
	defer rows.Close()

	var bills []FixedBill
	for rows.Next() {
		var b FixedBill
		var amount string
		if err := rows.Scan(&b.Name, &amount); err != nil {
			return nil, fmt.Errorf("scan fixed bill: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse fixed bill amount: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// ListEntries returns income records, newest first
func (s *Store) ListEntries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, date FROM entries ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var amount string
		if err := rows.Scan(&e.ID, &e.Description, &amount, &e.Date); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse entry amount: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListExpenses returns spending records, newest first
func (s *Store) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, category, amount, date FROM expenses ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		var amount string
		if err := rows.Scan(&e.ID, &e.Description, &e.Category, &amount, &e.Date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse expense amount: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ListDebts returns debt records, newest first
func (s *Store) ListDebts(ctx context.Context) ([]Debt, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, due_date, date FROM debts ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()

	var debts []Debt
	for rows.Next() {
		var d Debt
		var amount string
		if err := rows.Scan(&d.ID, &d.Description, &amount, &d.DueDate, &d.Date); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if d.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse debt amount: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// DeleteByDescription removes every entry, expense and debt whose
// description contains the given fragment. It returns how many rows went
// away in total.
func (s *Store) DeleteByDescription(ctx context.Context, fragment string) (int64, error) {
	pattern := "%" + fragment + "%"
	var total int64

	for _, table := range []string{"entries", "expenses", "debts"} {
		res, err := s.db.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE description LIKE ?", table), pattern)
		if err != nil {
			return total, fmt.Errorf("delete from %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("rows affected for %s: %w", table, err)
		}
		total += n
	}

	return total, nil
}

// sumTable totals the amount column of a table
func (s *Store) sumTable(ctx context.Context, table string) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT amount FROM %s", table))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", table, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return decimal.Zero, fmt.Errorf("scan %s amount: %w", table, err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse %s amount: %w", table, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}
