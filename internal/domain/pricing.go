package domain

import "strings"

// PlanType is the payment cadence chosen at checkout.
type PlanType string

const (
	// PlanOneShot charges the full pack price in a single payment.
	PlanOneShot PlanType = "ONE_SHOT"
	// PlanThreeTimes charges three monthly installments.
	PlanThreeTimes PlanType = "THREE_TIMES"
	// PlanTwelveTimes charges twelve monthly installments.
	PlanTwelveTimes PlanType = "TWELVE_TIMES"
)

// Valid reports whether the plan is one of the three known cadences.
func (p PlanType) Valid() bool {
	switch p {
	case PlanOneShot, PlanThreeTimes, PlanTwelveTimes:
		return true
	}
	return false
}

// ParsePlanType normalises free-form input into a PlanType.
func ParsePlanType(value string) (PlanType, bool) {
	plan := PlanType(strings.ToUpper(strings.TrimSpace(value)))
	if !plan.Valid() {
		return "", false
	}
	return plan, true
}

// QuoteDisplay holds the pre-formatted amount strings of a quote.
type QuoteDisplay struct {
	Total       string
	ThreeTimes  string
	TwelveTimes string
}

// PricingQuote is the computed, zone-specific price for one pack. It is a
// derived value object: computed on demand, never persisted.
type PricingQuote struct {
	PackID         string
	Zone           Zone
	CurrencyCode   string
	CurrencySymbol string
	TotalPrice     int64
	Monthly3x      int64
	Monthly12x     int64
	Display        QuoteDisplay
}

// AmountForPlan selects the amount due now for the chosen cadence.
func (q PricingQuote) AmountForPlan(plan PlanType) (int64, bool) {
	switch plan {
	case PlanOneShot:
		return q.TotalPrice, true
	case PlanThreeTimes:
		return q.Monthly3x, true
	case PlanTwelveTimes:
		return q.Monthly12x, true
	}
	return 0, false
}

// InstallmentAmount divides a total into n installments, rounding up so the
// summed installments never fall short of the total.
func InstallmentAmount(total int64, n int64) int64 {
	if n <= 0 {
		return total
	}
	if total <= 0 {
		return 0
	}
	return (total + n - 1) / n
}
