package pricing

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

// FormatAmount renders a whole-unit amount for display in the given
// currency. Euro and shekel amounts group digits with spaces and append the
// symbol ("7 000 ₪"); dollar amounts group with commas and prefix the symbol
// ("$5,500"). Amounts are whole units, never cents, so there is no decimal
// part to render.
func FormatAmount(amount int64, currency domain.Currency) string {
	switch currency.Code {
	case "USD":
		return currency.Symbol + groupDigits(amount, ",")
	default:
		return groupDigits(amount, " ") + " " + currency.Symbol
	}
}

// FormatForLocale adapts a formatted amount to the requested locale.
// Right-to-left locales read digit groups in reverse visual order, so the
// groups are re-ordered while each group's digits stay left-to-right. This
// is presentation only; the underlying amount is unchanged.
func FormatForLocale(amount int64, currency domain.Currency, locale language.Tag) string {
	formatted := FormatAmount(amount, currency)
	base, _ := locale.Base()
	if base.String() == "he" || base.String() == "ar" {
		return reverseGroups(formatted, currency)
	}
	return formatted
}

// DisplayForLocale re-renders a quote's display strings for the requested
// locale. Only right-to-left locales change anything; every other locale
// keeps the quote's display verbatim, including upstream-provided strings.
func DisplayForLocale(quote domain.PricingQuote, locale language.Tag) domain.QuoteDisplay {
	base, _ := locale.Base()
	if base.String() != "he" && base.String() != "ar" {
		return quote.Display
	}
	currency := domain.Currency{Code: quote.CurrencyCode, Symbol: quote.CurrencySymbol}
	return domain.QuoteDisplay{
		Total:       FormatForLocale(quote.TotalPrice, currency, locale),
		ThreeTimes:  FormatForLocale(quote.Monthly3x, currency, locale),
		TwelveTimes: FormatForLocale(quote.Monthly12x, currency, locale),
	}
}

func groupDigits(amount int64, sep string) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteString(sep)
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteString(sep)
		}
	}
	return b.String()
}

func reverseGroups(formatted string, currency domain.Currency) string {
	body := formatted
	prefix := ""
	suffix := ""
	if strings.HasPrefix(body, currency.Symbol) {
		prefix = currency.Symbol
		body = strings.TrimPrefix(body, currency.Symbol)
	}
	if strings.HasSuffix(body, " "+currency.Symbol) {
		suffix = " " + currency.Symbol
		body = strings.TrimSuffix(body, suffix)
	}

	sep := " "
	if strings.Contains(body, ",") {
		sep = ","
	}
	groups := strings.Split(body, sep)
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return prefix + strings.Join(groups, sep) + suffix
}
