package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

func init() {
	// The API speaks plain JSON numbers for amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	// Kind tells income apart from expense.
	Kind string

	// Period is a budget period in "YYYY-MM" form.
	Period string

	// User is the identity resolved from a valid token.
	User struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}

	// Transaction is a single income or expense record. The server owns it;
	// the client treats fetched transactions as read-only.
	Transaction struct {
		ID               int64           `json:"id"`
		Description      string          `json:"description"`
		Amount           decimal.Decimal `json:"amount"`
		Kind             Kind            `json:"kind"`
		Category         string          `json:"category,omitempty"`
		Date             time.Time       `json:"date"`
		IsPaid           bool            `json:"is_paid"`
		InstallmentTotal int             `json:"installment_total,omitempty"`
		InstallmentIndex int             `json:"installment_index,omitempty"`
	}

	// TransactionInput is the payload for creating or updating a transaction.
	TransactionInput struct {
		Description      string          `json:"description"`
		Amount           decimal.Decimal `json:"amount"`
		Kind             Kind            `json:"kind"`
		Category         string          `json:"category,omitempty"`
		InstallmentTotal int             `json:"installment_total,omitempty"`
		InstallmentIndex int             `json:"installment_index,omitempty"`
	}

	// Budget is a planned spend for a category within one period.
	Budget struct {
		ID       int64           `json:"id"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Period   Period          `json:"period"`
	}

	// BudgetInput is the payload for creating or updating a budget.
	BudgetInput struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Period   Period          `json:"period"`
	}

	// Flow is an income/expense pair inside a server-side aggregate.
	Flow struct {
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	// MonthlyAggregate maps "YYYY-MM" periods to flows.
	MonthlyAggregate map[Period]Flow

	// CategoryAggregate maps category names to flows.
	CategoryAggregate map[string]Flow
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid kind")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// Validate checks the period is a real "YYYY-MM" year-month.
func (p Period) Validate() error {
	if _, err := time.Parse("2006-01", string(p)); err != nil {
		return ErrInvalidPeriod
	}
	return nil
}

// PeriodOf returns the period a timestamp falls into.
func PeriodOf(t time.Time) Period {
	return Period(t.Format("2006-01"))
}

func (in TransactionInput) Validate() error {
	if len(strings.TrimSpace(in.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(in.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if in.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !in.Kind.Valid() {
		return ErrInvalidKind
	}
	if in.InstallmentTotal < 0 || in.InstallmentIndex < 0 {
		return errors.New("invalid installment")
	}
	if in.InstallmentTotal > 0 && in.InstallmentIndex > in.InstallmentTotal {
		return errors.New("installment index beyond total")
	}
	return nil
}

// Validate rejects non-positive amounts so budget progress never divides by
// zero later on.
func (in BudgetInput) Validate() error {
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return in.Period.Validate()
}

// ParseAmount parses a user-entered amount. It accepts both dot and comma
// decimal separators and rejects anything that is not a finite non-negative
// number.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
