package geo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

// Source records which step of the resolution chain produced the zone.
type Source string

const (
	// SourceOverride means a manual visitor choice was honoured.
	SourceOverride Source = "override"
	// SourceGeo means the upstream geo lookup mapped the visitor's country.
	SourceGeo Source = "geo"
	// SourceDefault means every other path failed and the EU default applied.
	SourceDefault Source = "default"
)

// OverrideStore is the small key-value boundary holding a visitor's manual
// zone choice. Implementations are visitor-scoped (a cookie on the web
// surface, a map in tests). Manual choice always wins and skips the lookup.
type OverrideStore interface {
	Get(ctx context.Context) (domain.Zone, bool)
	Set(ctx context.Context, zone domain.Zone)
	Clear(ctx context.Context)
}

// CountryLookup resolves a network address to an ISO 3166-1 alpha-2 country
// code. Implementations wrap the upstream geo-IP service.
type CountryLookup interface {
	Country(ctx context.Context, addr string) (string, error)
}

// ResolverDeps wires the dependencies required by the zone resolver.
type ResolverDeps struct {
	Lookup   CountryLookup
	Timeout  time.Duration
	CacheTTL time.Duration
	Now      func() time.Time
	Logger   func(ctx context.Context, event string, fields map[string]any)
}

// Resolver turns an anonymous visitor into a pricing zone. It never fails:
// every failure path terminates in the EU default.
type Resolver struct {
	lookup  CountryLookup
	timeout time.Duration
	now     func() time.Time
	logger  func(ctx context.Context, event string, fields map[string]any)
	cache   *zoneCache
}

// NewResolver constructs a Resolver, defaulting the clock, logger, timeout,
// and cache TTL when unset.
func NewResolver(deps ResolverDeps) *Resolver {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = 1500 * time.Millisecond
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Resolver{
		lookup:  deps.Lookup,
		timeout: timeout,
		now: func() time.Time {
			return now().UTC()
		},
		logger: logger,
		cache:  newZoneCache(ttl, func() time.Time { return now().UTC() }),
	}
}

// Resolve yields the visitor's pricing zone. The override store is consulted
// first; otherwise the geo lookup runs under a bounded timeout and its
// country code is mapped through the fixed table. Timeouts, network errors,
// and unmapped countries all degrade silently to the EU default; pricing
// must never block on a third-party outage.
func (r *Resolver) Resolve(ctx context.Context, overrides OverrideStore, visitorKey string) (domain.Zone, Source) {
	if overrides != nil {
		if zone, ok := overrides.Get(ctx); ok && zone.Valid() {
			return zone, SourceOverride
		}
	}

	visitorKey = strings.TrimSpace(visitorKey)
	if visitorKey != "" {
		if zone, source, ok := r.cache.Get(visitorKey); ok {
			return zone, source
		}
	}

	zone, source := r.resolveRemote(ctx, visitorKey)
	if visitorKey != "" && source != SourceDefault {
		// A default is a failed or unmapped lookup, not a fact about the
		// visitor. Caching it would pin the fallback zone for the full TTL
		// even after the lookup service recovers.
		r.cache.Put(visitorKey, zone, source)
	}
	return zone, source
}

func (r *Resolver) resolveRemote(ctx context.Context, visitorKey string) (domain.Zone, Source) {
	if r.lookup == nil {
		r.logger(ctx, "geo.lookup_failed", map[string]any{"reason": "lookup not configured"})
		return domain.DefaultZone, SourceDefault
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	country, err := r.lookup.Country(lookupCtx, visitorKey)
	if err != nil {
		r.logger(ctx, "geo.lookup_failed", map[string]any{"reason": err.Error()})
		return domain.DefaultZone, SourceDefault
	}

	zone, ok := ZoneForCountry(country)
	if !ok {
		r.logger(ctx, "geo.country_unmapped", map[string]any{"country": strings.ToUpper(strings.TrimSpace(country))})
		return domain.DefaultZone, SourceDefault
	}
	return zone, SourceGeo
}

// zoneCache keeps resolved zones for the remainder of a session so repeated
// calls do not re-trigger the lookup. A zone is written at most once per
// visitor and thereafter read-only until it expires.
type zoneCache struct {
	ttl time.Duration
	now func() time.Time
	mu  sync.RWMutex
	m   map[string]zoneCacheEntry
}

type zoneCacheEntry struct {
	zone    domain.Zone
	source  Source
	expires time.Time
}

func newZoneCache(ttl time.Duration, now func() time.Time) *zoneCache {
	return &zoneCache{
		ttl: ttl,
		now: now,
		m:   make(map[string]zoneCacheEntry),
	}
}

func (c *zoneCache) Get(key string) (domain.Zone, Source, bool) {
	c.mu.RLock()
	entry, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return "", "", false
	}
	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return "", "", false
	}
	return entry.zone, entry.source, true
}

func (c *zoneCache) Put(key string, zone domain.Zone, source Source) {
	c.mu.Lock()
	c.m[key] = zoneCacheEntry{zone: zone, source: source, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
