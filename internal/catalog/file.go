package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

type filePack struct {
	ID       string              `yaml:"id"`
	Prices   map[string]int64    `yaml:"prices"`
	Names    map[string]string   `yaml:"names"`
	Features map[string][]string `yaml:"features"`
}

type fileCatalog struct {
	Packs []filePack `yaml:"packs"`
}

// Load builds a catalog from a YAML overlay file, or from the embedded
// defaults when path is empty. Overlay catalogs are validated with the same
// completeness rule as the built-ins: a pack missing a zone price is a
// configuration error, not something to default at runtime.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc fileCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	if len(doc.Packs) == 0 {
		return nil, fmt.Errorf("%w: overlay defines no packs", ErrIncomplete)
	}
	packs := make([]domain.Pack, 0, len(doc.Packs))
	for _, entry := range doc.Packs {
		prices := make(map[domain.Zone]int64, len(entry.Prices))
		for key, price := range entry.Prices {
			zone, ok := domain.ParseZone(key)
			if !ok {
				return nil, fmt.Errorf("%w: pack %s references zone %q", ErrZoneUnknown, entry.ID, key)
			}
			prices[zone] = price
		}
		packs = append(packs, domain.Pack{
			ID:          entry.ID,
			BasePrices:  prices,
			DisplayName: entry.Names,
			Features:    entry.Features,
		})
	}
	return fromPacks(packs)
}
