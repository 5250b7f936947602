package records

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// testStore creates a temporary database for a single test
func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestEntryRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddEntry(ctx, "salario", dec(t, "3500.00"), ""))
	require.NoError(t, store.AddEntry(ctx, "freelance", dec(t, "800.50"), "2026-08-15"))

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	require.Equal(t, "freelance", entries[0].Description)
	require.True(t, entries[0].Amount.Equal(dec(t, "800.50")))
	require.Equal(t, "2026-08-15", entries[0].Date)

	require.Equal(t, "salario", entries[1].Description)
	require.NotEmpty(t, entries[1].Date, "missing date defaults to now")
}

func TestExpenseDefaultsCategory(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddExpense(ctx, "mercado", "food", dec(t, "120.30"), ""))
	require.NoError(t, store.AddExpense(ctx, "coisas", "", dec(t, "45"), ""))

	expenses, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	require.Equal(t, "other", expenses[0].Category)
	require.Equal(t, "food", expenses[1].Category)
}

func TestDebtRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddDebt(ctx, "cartao", dec(t, "950.75"), "2026-09-10"))

	debts, err := store.ListDebts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	require.Equal(t, "cartao", debts[0].Description)
	require.Equal(t, "2026-09-10", debts[0].DueDate)
	require.True(t, debts[0].Amount.Equal(dec(t, "950.75")))
}

func TestUpsertFixedBillReplacesAmount(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertFixedBill(ctx, "aluguel", dec(t, "1200")))
	require.NoError(t, store.UpsertFixedBill(ctx, "internet", dec(t, "99.90")))
	require.NoError(t, store.UpsertFixedBill(ctx, "aluguel", dec(t, "1350")))

	bills, err := store.ListFixedBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 2)

	byName := make(map[string]decimal.Decimal, len(bills))
	for _, b := range bills {
		byName[b.Name] = b.Amount
	}
	require.True(t, byName["aluguel"].Equal(dec(t, "1350")), "second upsert wins")
	require.True(t, byName["internet"].Equal(dec(t, "99.90")))
}

func TestSummaryFoldsFixedBillsIntoExpenses(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddEntry(ctx, "salario", dec(t, "3000"), ""))
	require.NoError(t, store.AddExpense(ctx, "mercado", "food", dec(t, "400"), ""))
	require.NoError(t, store.AddExpense(ctx, "uber", "transport", dec(t, "100"), ""))
	require.NoError(t, store.UpsertFixedBill(ctx, "aluguel", dec(t, "1200")))
	require.NoError(t, store.AddDebt(ctx, "cartao", dec(t, "250"), "2026-09-01"))

	summary, err := store.GetSummary(ctx)
	require.NoError(t, err)
	require.True(t, summary.Entries.Equal(dec(t, "3000")))
	require.True(t, summary.Expenses.Equal(dec(t, "1700")), "expenses include fixed bills")
	require.True(t, summary.Fixed.Equal(dec(t, "1200")))
	require.True(t, summary.Debts.Equal(dec(t, "250")))
	require.True(t, summary.Balance.Equal(dec(t, "1300")))
	require.NotEmpty(t, summary.Tips)
}

func TestSummaryNegativeBalanceTip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddEntry(ctx, "bico", dec(t, "100"), ""))
	require.NoError(t, store.AddExpense(ctx, "mercado", "food", dec(t, "500"), ""))

	summary, err := store.GetSummary(ctx)
	require.NoError(t, err)
	require.True(t, summary.Balance.IsNegative())
	require.Contains(t, summary.Tips[0], "negativo")
}

func TestChartDataGroupsByCategory(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddExpense(ctx, "mercado", "food", dec(t, "200"), ""))
	require.NoError(t, store.AddExpense(ctx, "ifood", "food", dec(t, "50"), ""))
	require.NoError(t, store.AddExpense(ctx, "uber", "transport", dec(t, "80"), ""))
	require.NoError(t, store.UpsertFixedBill(ctx, "aluguel", dec(t, "1000")))

	chart, err := store.GetChartData(ctx)
	require.NoError(t, err)
	require.Equal(t, len(chart.Labels), len(chart.Values))

	totals := make(map[string]decimal.Decimal, len(chart.Labels))
	for i, label := range chart.Labels {
		totals[label] = chart.Values[i]
	}
	require.True(t, totals["food"].Equal(dec(t, "250")))
	require.True(t, totals["transport"].Equal(dec(t, "80")))
	require.True(t, totals["fixed bills"].Equal(dec(t, "1000")))
}

func TestDeleteByDescriptionSpansTables(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddEntry(ctx, "venda bicicleta", dec(t, "300"), ""))
	require.NoError(t, store.AddExpense(ctx, "conserto bicicleta", "other", dec(t, "80"), ""))
	require.NoError(t, store.AddDebt(ctx, "parcela bicicleta", dec(t, "150"), ""))
	require.NoError(t, store.AddExpense(ctx, "mercado", "food", dec(t, "90"), ""))

	deleted, err := store.DeleteByDescription(ctx, "bicicleta")
	require.NoError(t, err)
	require.EqualValues(t, 3, deleted)

	expenses, err := store.ListExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	require.Equal(t, "mercado", expenses[0].Description)

	deleted, err = store.DeleteByDescription(ctx, "inexistente")
	require.NoError(t, err)
	require.EqualValues(t, 0, deleted)
}

func TestReceiptStorage(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	content := []byte("%PDF-1.4 fake receipt")
	require.NoError(t, store.SaveReceipt(ctx, "gasto", "mercado agosto", "2026-08", "nota.pdf", content))
	require.NoError(t, store.SaveReceipt(ctx, "entrada", "venda", "2026-07", "recibo.pdf", []byte("x")))

	docs, err := store.ListReceipts(ctx, "2026-08")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "mercado agosto", docs[0].Description)

	all, err := store.ListReceipts(ctx, "todos")
	require.NoError(t, err)
	require.Len(t, all, 2)

	name, data, err := store.GetReceiptFile(ctx, docs[0].ID)
	require.NoError(t, err)
	require.Equal(t, "nota.pdf", name)
	require.Equal(t, content, data)

	_, _, err = store.GetReceiptFile(ctx, 9999)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestPaycheckStorage(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePaycheck(ctx, "2026-08", "holerite.pdf", []byte("payslip")))

	docs, err := store.ListPaychecks(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "2026-08", docs[0].Month)

	name, data, err := store.GetPaycheckFile(ctx, docs[0].ID)
	require.NoError(t, err)
	require.Equal(t, "holerite.pdf", name)
	require.Equal(t, []byte("payslip"), data)

	_, _, err = store.GetPaycheckFile(ctx, 42)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}
