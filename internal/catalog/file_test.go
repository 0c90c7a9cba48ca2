package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

const overlayDoc = `
packs:
  - id: starter
    prices:
      eu: 1000
      us_ca: 1100
      il: 1400
      asia_africa: 900
    names:
      fr: "Pack découverte"
      en: "Starter Pack"
    features:
      fr: ["Audit initial"]
`

func TestParseOverlay(t *testing.T) {
	cat, err := Parse([]byte(overlayDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	price, err := cat.BasePrice("starter", domain.ZoneIL)
	if err != nil {
		t.Fatalf("BasePrice: %v", err)
	}
	if price != 1400 {
		t.Fatalf("expected 1400, got %d", price)
	}
	pack, err := cat.Pack("starter")
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if pack.Name("en") != "Starter Pack" {
		t.Fatalf("unexpected display name %q", pack.Name("en"))
	}
}

func TestParseRejectsUnknownZone(t *testing.T) {
	doc := `
packs:
  - id: starter
    prices:
      eu: 1000
      mars: 999
`
	if _, err := Parse([]byte(doc)); !errors.Is(err, ErrZoneUnknown) {
		t.Fatalf("expected ErrZoneUnknown, got %v", err)
	}
}

func TestParseRejectsIncompletePricing(t *testing.T) {
	doc := `
packs:
  - id: starter
    prices:
      eu: 1000
      us_ca: 1100
`
	if _, err := Parse([]byte(doc)); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	if _, err := Parse([]byte("packs: []\n")); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if _, err := Parse([]byte(":::not yaml")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cat.Pack("franchise"); err != nil {
		t.Fatalf("expected built-in pack, got %v", err)
	}
}

func TestLoadReadsOverlayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(path, []byte(overlayDoc), 0o600); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cat.Pack("starter"); err != nil {
		t.Fatalf("expected overlay pack, got %v", err)
	}
	if _, err := cat.Pack("analyse"); !errors.Is(err, ErrPackNotFound) {
		t.Fatalf("overlay should replace the built-ins, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing overlay file")
	}
}
