package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTransactionInputValidate(t *testing.T) {
	good := TransactionInput{Description: "Salary", Amount: amt("1000"), Kind: Income}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	cases := []struct {
		name string
		in   TransactionInput
	}{
		{"empty description", TransactionInput{Description: "  ", Amount: amt("10"), Kind: Expense}},
		{"negative amount", TransactionInput{Description: "x", Amount: amt("-1"), Kind: Expense}},
		{"unknown kind", TransactionInput{Description: "x", Amount: amt("1"), Kind: "transfer"}},
		{"installment index beyond total", TransactionInput{Description: "x", Amount: amt("1"), Kind: Expense, InstallmentTotal: 3, InstallmentIndex: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.in.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBudgetInputValidate(t *testing.T) {
	good := BudgetInput{Category: "food", Amount: amt("200"), Period: "2024-05"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	cases := []struct {
		name string
		in   BudgetInput
	}{
		{"empty category", BudgetInput{Category: "", Amount: amt("200"), Period: "2024-05"}},
		{"zero amount", BudgetInput{Category: "food", Amount: amt("0"), Period: "2024-05"}},
		{"negative amount", BudgetInput{Category: "food", Amount: amt("-5"), Period: "2024-05"}},
		{"bad period", BudgetInput{Category: "food", Amount: amt("200"), Period: "05-2024"}},
		{"month out of range", BudgetInput{Category: "food", Amount: amt("200"), Period: "2024-13"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.in.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{" 1000 ", "1000", true},
		{"0", "0", true},
		{"-1", "", false},
		{"", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.ok {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				if !got.Equal(amt(tc.want)) {
					t.Fatalf("got %s want %s", got, tc.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error, got %s", got)
			}
		})
	}
}
