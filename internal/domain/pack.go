package domain

// Pack is a purchasable service offering with a base price in every zone.
// Prices are whole currency units, not minor units.
type Pack struct {
	ID          string
	BasePrices  map[Zone]int64
	DisplayName map[string]string
	Features    map[string][]string
}

// Name returns the display name for the locale, falling back to the
// first available translation.
func (p Pack) Name(locale string) string {
	if name, ok := p.DisplayName[locale]; ok && name != "" {
		return name
	}
	for _, fallback := range []string{"fr", "en"} {
		if name, ok := p.DisplayName[fallback]; ok && name != "" {
			return name
		}
	}
	for _, name := range p.DisplayName {
		if name != "" {
			return name
		}
	}
	return p.ID
}
