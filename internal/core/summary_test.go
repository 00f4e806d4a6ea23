package core

import "testing"

func tx(kind Kind, amount string) Transaction {
	return Transaction{Description: "t", Kind: kind, Amount: amt(amount)}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if !s.Income.IsZero() || !s.Expense.IsZero() || !s.Balance.IsZero() {
		t.Fatalf("empty list should fold to zero summary, got %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		tx(Income, "5000"),
		tx(Expense, "1500"),
		tx(Expense, "450.50"),
		tx(Income, "800"),
	}
	s := Summarize(txs)
	if !s.Income.Equal(amt("5800")) {
		t.Fatalf("income = %s, want 5800", s.Income)
	}
	if !s.Expense.Equal(amt("1950.50")) {
		t.Fatalf("expense = %s, want 1950.50", s.Expense)
	}
	if !s.Balance.Equal(amt("3849.50")) {
		t.Fatalf("balance = %s, want 3849.50", s.Balance)
	}
}

// For non-negative amounts: balance == income - expense and
// income + expense == sum of absolute amounts.
func TestSummarizeIdentities(t *testing.T) {
	txs := []Transaction{
		tx(Income, "10"), tx(Expense, "3"), tx(Income, "0"), tx(Expense, "7.25"),
	}
	s := Summarize(txs)
	if !s.Balance.Equal(s.Income.Sub(s.Expense)) {
		t.Fatalf("balance %s != income-expense %s", s.Balance, s.Income.Sub(s.Expense))
	}
	total := amt("0")
	for _, tr := range txs {
		total = total.Add(tr.Amount.Abs())
	}
	if !s.Income.Add(s.Expense).Equal(total) {
		t.Fatalf("income+expense %s != total %s", s.Income.Add(s.Expense), total)
	}
}
