package core

import "github.com/shopspring/decimal"

// Summary is the dashboard headline figures. It is always derived from the
// full transaction list with Summarize and never stored on its own, so it
// cannot drift from the list it was computed from.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Summarize folds a transaction list into income, expense and balance.
func Summarize(txs []Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tr := range txs {
		switch tr.Kind {
		case Income:
			income = income.Add(tr.Amount)
		default:
			expense = expense.Add(tr.Amount)
		}
	}
	return Summary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}
