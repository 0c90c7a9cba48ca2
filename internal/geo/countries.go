package geo

import (
	"strings"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

// countryZones maps ISO 3166-1 alpha-2 country codes onto pricing zones.
// Codes absent from the table fall through to the EU default in the
// resolver. The EU bucket covers the union plus the close European market
// (UK, EFTA, Balkans); US_CA is North America; IL stands alone; the
// remaining mapped markets share the ASIA_AFRICA tier.
var countryZones = map[string]domain.Zone{
	// European Union.
	"AT": domain.ZoneEU, "BE": domain.ZoneEU, "BG": domain.ZoneEU,
	"HR": domain.ZoneEU, "CY": domain.ZoneEU, "CZ": domain.ZoneEU,
	"DK": domain.ZoneEU, "EE": domain.ZoneEU, "FI": domain.ZoneEU,
	"FR": domain.ZoneEU, "DE": domain.ZoneEU, "GR": domain.ZoneEU,
	"HU": domain.ZoneEU, "IE": domain.ZoneEU, "IT": domain.ZoneEU,
	"LV": domain.ZoneEU, "LT": domain.ZoneEU, "LU": domain.ZoneEU,
	"MT": domain.ZoneEU, "NL": domain.ZoneEU, "PL": domain.ZoneEU,
	"PT": domain.ZoneEU, "RO": domain.ZoneEU, "SK": domain.ZoneEU,
	"SI": domain.ZoneEU, "ES": domain.ZoneEU, "SE": domain.ZoneEU,

	// Wider European market priced with the union.
	"GB": domain.ZoneEU, "CH": domain.ZoneEU, "NO": domain.ZoneEU,
	"IS": domain.ZoneEU, "LI": domain.ZoneEU, "MC": domain.ZoneEU,
	"AD": domain.ZoneEU, "SM": domain.ZoneEU, "AL": domain.ZoneEU,
	"BA": domain.ZoneEU, "ME": domain.ZoneEU, "MK": domain.ZoneEU,
	"RS": domain.ZoneEU, "XK": domain.ZoneEU, "UA": domain.ZoneEU,
	"MD": domain.ZoneEU,

	// North America.
	"US": domain.ZoneUSCA, "CA": domain.ZoneUSCA,

	"IL": domain.ZoneIL,

	// Asia.
	"AE": domain.ZoneAsiaAfrica, "SA": domain.ZoneAsiaAfrica,
	"QA": domain.ZoneAsiaAfrica, "KW": domain.ZoneAsiaAfrica,
	"BH": domain.ZoneAsiaAfrica, "OM": domain.ZoneAsiaAfrica,
	"JO": domain.ZoneAsiaAfrica, "TR": domain.ZoneAsiaAfrica,
	"IN": domain.ZoneAsiaAfrica, "PK": domain.ZoneAsiaAfrica,
	"BD": domain.ZoneAsiaAfrica, "LK": domain.ZoneAsiaAfrica,
	"CN": domain.ZoneAsiaAfrica, "HK": domain.ZoneAsiaAfrica,
	"TW": domain.ZoneAsiaAfrica, "JP": domain.ZoneAsiaAfrica,
	"KR": domain.ZoneAsiaAfrica, "SG": domain.ZoneAsiaAfrica,
	"MY": domain.ZoneAsiaAfrica, "TH": domain.ZoneAsiaAfrica,
	"VN": domain.ZoneAsiaAfrica, "PH": domain.ZoneAsiaAfrica,
	"ID": domain.ZoneAsiaAfrica, "KZ": domain.ZoneAsiaAfrica,
	"UZ": domain.ZoneAsiaAfrica, "GE": domain.ZoneAsiaAfrica,
	"AM": domain.ZoneAsiaAfrica, "AZ": domain.ZoneAsiaAfrica,

	// Africa.
	"MA": domain.ZoneAsiaAfrica, "DZ": domain.ZoneAsiaAfrica,
	"TN": domain.ZoneAsiaAfrica, "EG": domain.ZoneAsiaAfrica,
	"NG": domain.ZoneAsiaAfrica, "GH": domain.ZoneAsiaAfrica,
	"CI": domain.ZoneAsiaAfrica, "SN": domain.ZoneAsiaAfrica,
	"CM": domain.ZoneAsiaAfrica, "KE": domain.ZoneAsiaAfrica,
	"TZ": domain.ZoneAsiaAfrica, "UG": domain.ZoneAsiaAfrica,
	"ET": domain.ZoneAsiaAfrica, "RW": domain.ZoneAsiaAfrica,
	"ZA": domain.ZoneAsiaAfrica, "MU": domain.ZoneAsiaAfrica,
	"BJ": domain.ZoneAsiaAfrica, "TG": domain.ZoneAsiaAfrica,
	"ML": domain.ZoneAsiaAfrica, "BF": domain.ZoneAsiaAfrica,
	"NE": domain.ZoneAsiaAfrica, "GA": domain.ZoneAsiaAfrica,
	"CG": domain.ZoneAsiaAfrica, "CD": domain.ZoneAsiaAfrica,
	"MG": domain.ZoneAsiaAfrica, "ZM": domain.ZoneAsiaAfrica,
	"ZW": domain.ZoneAsiaAfrica, "MZ": domain.ZoneAsiaAfrica,
	"AO": domain.ZoneAsiaAfrica, "LY": domain.ZoneAsiaAfrica,
	"SD": domain.ZoneAsiaAfrica, "MR": domain.ZoneAsiaAfrica,
}

// ZoneForCountry maps an ISO country code to its pricing zone. The second
// return is false for unknown or unmapped codes.
func ZoneForCountry(code string) (domain.Zone, bool) {
	zone, ok := countryZones[strings.ToUpper(strings.TrimSpace(code))]
	return zone, ok
}
