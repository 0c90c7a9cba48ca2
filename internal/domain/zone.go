package domain

import "strings"

// Zone identifies a geographic pricing region with its own currency.
type Zone string

const (
	// ZoneEU covers the European Union plus the UK, Switzerland, and Norway.
	ZoneEU Zone = "EU"
	// ZoneUSCA covers the United States and Canada.
	ZoneUSCA Zone = "US_CA"
	// ZoneIL covers Israel.
	ZoneIL Zone = "IL"
	// ZoneAsiaAfrica covers the Asian and African markets.
	ZoneAsiaAfrica Zone = "ASIA_AFRICA"
)

// DefaultZone is the zone every failed or ambiguous resolution terminates in.
const DefaultZone = ZoneEU

// Zones returns the closed set of pricing zones in a stable order.
func Zones() []Zone {
	return []Zone{ZoneEU, ZoneUSCA, ZoneIL, ZoneAsiaAfrica}
}

// Valid reports whether the zone is one of the four known values.
func (z Zone) Valid() bool {
	switch z {
	case ZoneEU, ZoneUSCA, ZoneIL, ZoneAsiaAfrica:
		return true
	}
	return false
}

// ParseZone normalises free-form input into a Zone.
func ParseZone(value string) (Zone, bool) {
	zone := Zone(strings.ToUpper(strings.TrimSpace(value)))
	if !zone.Valid() {
		return "", false
	}
	return zone, true
}

// Currency pairs an ISO 4217 code with its display glyph.
type Currency struct {
	Code   string
	Symbol string
}
