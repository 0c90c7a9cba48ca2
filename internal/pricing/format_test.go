package pricing

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

var (
	euro   = domain.Currency{Code: "EUR", Symbol: "€"}
	dollar = domain.Currency{Code: "USD", Symbol: "$"}
	shekel = domain.Currency{Code: "ILS", Symbol: "₪"}
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		amount   int64
		currency domain.Currency
		want     string
	}{
		{7000, shekel, "7 000 ₪"},
		{584, shekel, "584 ₪"},
		{15000, euro, "15 000 €"},
		{1250, euro, "1 250 €"},
		{49000, shekel, "49 000 ₪"},
		{5500, dollar, "$5,500"},
		{459, dollar, "$459"},
		{1234567, euro, "1 234 567 €"},
		{1234567, dollar, "$1,234,567"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.amount, tc.currency); got != tc.want {
			t.Fatalf("FormatAmount(%d, %s) = %q, want %q", tc.amount, tc.currency.Code, got, tc.want)
		}
	}
}

func TestFormatForLocale(t *testing.T) {
	// Latin-script locales keep the zone formatting untouched.
	if got := FormatForLocale(15000, euro, language.French); got != "15 000 €" {
		t.Fatalf("expected %q, got %q", "15 000 €", got)
	}

	// Hebrew reverses the visual order of digit groups, digits within a
	// group stay left-to-right.
	if got := FormatForLocale(49000, shekel, language.Hebrew); got != "000 49 ₪" {
		t.Fatalf("expected %q, got %q", "000 49 ₪", got)
	}
	if got := FormatForLocale(584, shekel, language.Hebrew); got != "584 ₪" {
		t.Fatalf("expected %q, got %q", "584 ₪", got)
	}
}

func TestDisplayForLocale(t *testing.T) {
	quote := domain.PricingQuote{
		PackID:         "franchise",
		Zone:           domain.ZoneIL,
		CurrencyCode:   "ILS",
		CurrencySymbol: "₪",
		TotalPrice:     49000,
		Monthly3x:      16334,
		Monthly12x:     4084,
		Display: domain.QuoteDisplay{
			Total:       "49 000 ₪",
			ThreeTimes:  "16 334 ₪",
			TwelveTimes: "4 084 ₪",
		},
	}

	// Left-to-right locales keep the display untouched, including strings
	// that came back from the upstream verbatim.
	if got := DisplayForLocale(quote, language.French); got != quote.Display {
		t.Fatalf("expected display unchanged for fr, got %+v", got)
	}
	if got := DisplayForLocale(quote, language.Und); got != quote.Display {
		t.Fatalf("expected display unchanged for und, got %+v", got)
	}

	got := DisplayForLocale(quote, language.Hebrew)
	if got.Total != "000 49 ₪" {
		t.Fatalf("expected %q, got %q", "000 49 ₪", got.Total)
	}
	if got.ThreeTimes != "334 16 ₪" {
		t.Fatalf("expected %q, got %q", "334 16 ₪", got.ThreeTimes)
	}
	if got.TwelveTimes != "084 4 ₪" {
		t.Fatalf("expected %q, got %q", "084 4 ₪", got.TwelveTimes)
	}
}
