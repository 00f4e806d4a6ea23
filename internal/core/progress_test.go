package core

import "testing"

func TestProgressPercentBoundaries(t *testing.T) {
	b := Budget{Category: "food", Amount: amt("200"), Period: "2024-05"}

	cases := []struct {
		name  string
		spent string
		want  int
	}{
		{"nothing spent", "0", 0},
		{"half", "100", 50},
		{"exactly at goal", "200", 100},
		{"over goal clamps", "250", 100},
		{"rounds to nearest", "100.9", 50}, // 50.45% -> 50
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := CategoryAggregate{"food": {Expense: amt(tc.spent)}}
			if got := ProgressPercent(b, agg, nil); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestProgressPercentFallsBackToMonthly(t *testing.T) {
	b := Budget{Category: "food", Amount: amt("200"), Period: "2024-05"}
	monthly := MonthlyAggregate{"2024-05": {Expense: amt("50")}}

	if got := ProgressPercent(b, nil, monthly); got != 25 {
		t.Fatalf("monthly fallback: got %d want 25", got)
	}
	// Category aggregate wins when it has the category.
	byCat := CategoryAggregate{"food": {Expense: amt("200")}}
	if got := ProgressPercent(b, byCat, monthly); got != 100 {
		t.Fatalf("category takes precedence: got %d want 100", got)
	}
	// Neither aggregate knows anything.
	if got := ProgressPercent(b, CategoryAggregate{}, MonthlyAggregate{}); got != 0 {
		t.Fatalf("no aggregates: got %d want 0", got)
	}
}

func TestProgressPercentNonPositiveAmount(t *testing.T) {
	agg := CategoryAggregate{"food": {Expense: amt("100")}}
	zero := Budget{Category: "food", Amount: amt("0"), Period: "2024-05"}
	if got := ProgressPercent(zero, agg, nil); got != 0 {
		t.Fatalf("zero amount: got %d want 0", got)
	}
	neg := Budget{Category: "food", Amount: amt("-10"), Period: "2024-05"}
	if got := ProgressPercent(neg, agg, nil); got != 0 {
		t.Fatalf("negative amount: got %d want 0", got)
	}
}
