package domain

import "testing"

func TestInstallmentAmountRoundsUp(t *testing.T) {
	tests := []struct {
		total int64
		n     int64
		want  int64
	}{
		{7000, 3, 2334},
		{7000, 12, 584},
		{15000, 3, 5000},
		{15000, 12, 1250},
		{1, 3, 1},
		{100, 1, 100},
		{0, 3, 0},
		{-50, 3, 0},
		{100, 0, 100},
	}
	for _, tc := range tests {
		if got := InstallmentAmount(tc.total, tc.n); got != tc.want {
			t.Fatalf("InstallmentAmount(%d, %d) = %d, want %d", tc.total, tc.n, got, tc.want)
		}
	}
}

func TestInstallmentAmountCoversTotal(t *testing.T) {
	for total := int64(1); total <= 200; total++ {
		for _, n := range []int64{3, 12} {
			installment := InstallmentAmount(total, n)
			if installment*n < total {
				t.Fatalf("%d installments of %d fall short of %d", n, installment, total)
			}
			if (installment-1)*n >= total {
				t.Fatalf("installment %d for total %d over %d payments is not minimal", installment, total, n)
			}
		}
	}
}

func TestParsePlanType(t *testing.T) {
	tests := []struct {
		input string
		want  PlanType
		ok    bool
	}{
		{"ONE_SHOT", PlanOneShot, true},
		{"three_times", PlanThreeTimes, true},
		{"  Twelve_Times ", PlanTwelveTimes, true},
		{"monthly", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ParsePlanType(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParsePlanType(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAmountForPlan(t *testing.T) {
	quote := PricingQuote{TotalPrice: 7000, Monthly3x: 2334, Monthly12x: 584}

	tests := []struct {
		plan PlanType
		want int64
		ok   bool
	}{
		{PlanOneShot, 7000, true},
		{PlanThreeTimes, 2334, true},
		{PlanTwelveTimes, 584, true},
		{PlanType("WEEKLY"), 0, false},
	}
	for _, tc := range tests {
		got, ok := quote.AmountForPlan(tc.plan)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("AmountForPlan(%q) = (%d, %v), want (%d, %v)", tc.plan, got, ok, tc.want, tc.ok)
		}
	}
}
