package records

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// GetSummary returns totals for the whole ledger. Fixed bills are counted
// into the expense total; the balance is entries minus that total.
func (s *Store) GetSummary(ctx context.Context) (Summary, error) {
	entries, err := s.sumTable(ctx, "entries")
	if err != nil {
		return Summary{}, err
	}
	expenses, err := s.sumTable(ctx, "expenses")
	if err != nil {
		return Summary{}, err
	}
	fixed, err := s.sumTable(ctx, "fixed_bills")
	if err != nil {
		return Summary{}, err
	}
	debts, err := s.sumTable(ctx, "debts")
	if err != nil {
		return Summary{}, err
	}

	totalExpenses := expenses.Add(fixed)
	balance := entries.Sub(totalExpenses)

	var tips []string
	switch {
	case balance.IsNegative():
		tips = append(tips, "Atenção! Saldo negativo.")
	case balance.LessThan(decimal.NewFromInt(100)):
		tips = append(tips, "Saldo baixo.")
	default:
		tips = append(tips, "Saldo positivo!")
	}

	return Summary{
		Entries:  entries,
		Expenses: totalExpenses,
		Fixed:    fixed,
		Debts:    debts,
		Balance:  balance,
		Tips:     tips,
	}, nil
}

// GetChartData returns expense totals grouped by category, with the fixed
// bills folded in as their own slice.
func (s *Store) GetChartData(ctx context.Context) (ChartData, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, amount FROM expenses ORDER BY category")
	if err != nil {
		return ChartData{}, fmt.Errorf("chart data: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	var order []string
	for rows.Next() {
		var category, amount string
		if err := rows.Scan(&category, &amount); err != nil {
			return ChartData{}, fmt.Errorf("scan chart row: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return ChartData{}, fmt.Errorf("parse chart amount: %w", err)
		}
		if _, seen := totals[category]; !seen {
			order = append(order, category)
		}
		totals[category] = totals[category].Add(d)
	}
	if err := rows.Err(); err != nil {
		return ChartData{}, err
	}

	fixed, err := s.sumTable(ctx, "fixed_bills")
	if err != nil {
		return ChartData{}, err
	}
	if fixed.IsPositive() {
		order = append(order, "fixed bills")
		totals["fixed bills"] = fixed
	}

	var chart ChartData
	for _, label := range order {
		chart.Labels = append(chart.Labels, label)
		chart.Values = append(chart.Values, totals[label])
	}
	return chart, nil
}
