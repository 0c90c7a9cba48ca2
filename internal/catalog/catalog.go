package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

var (
	// ErrPackNotFound signals an unknown pack identifier. This is a
	// programmer or configuration error, not a runtime condition.
	ErrPackNotFound = errors.New("catalog: pack not found")
	// ErrZoneUnknown signals a zone outside the closed enum.
	ErrZoneUnknown = errors.New("catalog: unknown zone")
	// ErrIncomplete signals a pack missing a base price for some zone.
	ErrIncomplete = errors.New("catalog: incomplete pack pricing")
)

// currencies is the immutable zone to currency mapping.
var currencies = map[domain.Zone]domain.Currency{
	domain.ZoneEU:         {Code: "EUR", Symbol: "€"},
	domain.ZoneUSCA:       {Code: "USD", Symbol: "$"},
	domain.ZoneIL:         {Code: "ILS", Symbol: "₪"},
	domain.ZoneAsiaAfrica: {Code: "USD", Symbol: "$"},
}

// Catalog is the static lookup table of zones, currencies, and packs.
// It is built once at process start and never mutated afterwards.
type Catalog struct {
	packs map[string]domain.Pack
	order []string
}

// New builds a catalog from the embedded defaults, validating completeness.
func New() (*Catalog, error) {
	return fromPacks(defaultPacks())
}

func fromPacks(packs []domain.Pack) (*Catalog, error) {
	c := &Catalog{packs: make(map[string]domain.Pack, len(packs))}
	for _, pack := range packs {
		id := strings.TrimSpace(pack.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: pack with empty id", ErrIncomplete)
		}
		for _, zone := range domain.Zones() {
			price, ok := pack.BasePrices[zone]
			if !ok || price <= 0 {
				return nil, fmt.Errorf("%w: pack %s has no price for zone %s", ErrIncomplete, id, zone)
			}
		}
		if _, dup := c.packs[id]; dup {
			return nil, fmt.Errorf("%w: duplicate pack %s", ErrIncomplete, id)
		}
		pack.ID = id
		c.packs[id] = pack
		c.order = append(c.order, id)
	}
	if len(c.packs) == 0 {
		return nil, fmt.Errorf("%w: no packs defined", ErrIncomplete)
	}
	sort.Strings(c.order)
	return c, nil
}

// Currency returns the currency for a zone. The mapping is total over the
// zone enum; an invalid zone yields ErrZoneUnknown.
func (c *Catalog) Currency(zone domain.Zone) (domain.Currency, error) {
	currency, ok := currencies[zone]
	if !ok {
		return domain.Currency{}, fmt.Errorf("%w: %q", ErrZoneUnknown, zone)
	}
	return currency, nil
}

// BasePrice returns the whole-unit base price of a pack in a zone.
func (c *Catalog) BasePrice(packID string, zone domain.Zone) (int64, error) {
	if !zone.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrZoneUnknown, zone)
	}
	pack, ok := c.packs[strings.TrimSpace(packID)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrPackNotFound, packID)
	}
	price, ok := pack.BasePrices[zone]
	if !ok {
		// Unreachable for catalogs built through New/Load, which validate
		// completeness; kept as a distinct signal rather than a zero price.
		return 0, fmt.Errorf("%w: pack %s zone %s", ErrIncomplete, pack.ID, zone)
	}
	return price, nil
}

// Pack returns the full pack definition.
func (c *Catalog) Pack(packID string) (domain.Pack, error) {
	pack, ok := c.packs[strings.TrimSpace(packID)]
	if !ok {
		return domain.Pack{}, fmt.Errorf("%w: %q", ErrPackNotFound, packID)
	}
	return pack, nil
}

// Packs lists all packs in stable id order.
func (c *Catalog) Packs() []domain.Pack {
	out := make([]domain.Pack, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.packs[id])
	}
	return out
}

func defaultPacks() []domain.Pack {
	return []domain.Pack{
		{
			ID: "analyse",
			BasePrices: map[domain.Zone]int64{
				domain.ZoneEU:         5000,
				domain.ZoneUSCA:       5500,
				domain.ZoneIL:         7000,
				domain.ZoneAsiaAfrica: 4500,
			},
			DisplayName: map[string]string{
				"fr": "Analyse de marché",
				"en": "Market Analysis",
				"he": "ניתוח שוק",
			},
			Features: map[string][]string{
				"fr": {"Étude de marché complète", "Rapport de faisabilité", "Recommandations stratégiques"},
				"en": {"Full market study", "Feasibility report", "Strategic recommendations"},
			},
		},
		{
			ID: "succursales",
			BasePrices: map[domain.Zone]int64{
				domain.ZoneEU:         15000,
				domain.ZoneUSCA:       16500,
				domain.ZoneIL:         21000,
				domain.ZoneAsiaAfrica: 13500,
			},
			DisplayName: map[string]string{
				"fr": "Ouverture de succursales",
				"en": "Branch Opening",
				"he": "פתיחת סניפים",
			},
			Features: map[string][]string{
				"fr": {"Analyse de marché incluse", "Accompagnement juridique", "Recherche de locaux"},
				"en": {"Market analysis included", "Legal support", "Location scouting"},
			},
		},
		{
			ID: "franchise",
			BasePrices: map[domain.Zone]int64{
				domain.ZoneEU:         35000,
				domain.ZoneUSCA:       38500,
				domain.ZoneIL:         49000,
				domain.ZoneAsiaAfrica: 31500,
			},
			DisplayName: map[string]string{
				"fr": "Développement en franchise",
				"en": "Franchise Development",
				"he": "פיתוח זכיינות",
			},
			Features: map[string][]string{
				"fr": {"Modèle de franchise complet", "Manuel opératoire", "Recrutement des franchisés"},
				"en": {"Complete franchise model", "Operations manual", "Franchisee recruitment"},
			},
		},
	}
}
