package geo

import (
	"context"
	"sync"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

// MemoryOverrideStore holds a single visitor's zone choice in memory. The
// web surface uses a cookie-backed store instead; this one serves tests and
// embedded callers.
type MemoryOverrideStore struct {
	mu   sync.Mutex
	zone domain.Zone
	set  bool
}

// Get implements OverrideStore.
func (s *MemoryOverrideStore) Get(context.Context) (domain.Zone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", false
	}
	return s.zone, true
}

// Set implements OverrideStore.
func (s *MemoryOverrideStore) Set(_ context.Context, zone domain.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zone = zone
	s.set = true
}

// Clear implements OverrideStore.
func (s *MemoryOverrideStore) Clear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zone = ""
	s.set = false
}
