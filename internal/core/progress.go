package core

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProgressPercent returns how much of a budget has been spent, as an integer
// percentage clamped to [0,100].
//
// Spend comes from the category aggregate when the budget's category is
// present there. When it is not, the monthly aggregate's expense for the
// budget's period stands in. That figure covers every category in the month,
// not just this one, so it overstates spend for category budgets. With
// neither aggregate available the progress is 0.
//
// A non-positive budget amount yields 0; BudgetInput.Validate rejects such
// budgets at creation time, so this guard only matters for data the server
// already holds.
func ProgressPercent(b Budget, byCategory CategoryAggregate, byMonth MonthlyAggregate) int {
	if !b.Amount.IsPositive() {
		return 0
	}

	var spent decimal.Decimal
	if flow, ok := byCategory[b.Category]; ok {
		spent = flow.Expense
	} else if flow, ok := byMonth[b.Period]; ok {
		spent = flow.Expense
	} else {
		return 0
	}

	if !spent.IsPositive() {
		return 0
	}

	percent := spent.Mul(hundred).Div(b.Amount).Round(0).IntPart()
	if percent > 100 {
		return 100
	}
	return int(percent)
}
