package store

import (
	"sync"

	"github.com/Reece236/StockMarketSim/internal/domain"
)

// FillStore is a thread-safe in-memory store for fills, keyed by
// instrument. Fills are append-only and chronological, and include fills
// that settlement dropped, so callers can audit why a matched order never
// moved a ledger.
type FillStore struct {
	mu    sync.RWMutex
	fills map[string][]*domain.Fill
}

// NewFillStore creates an empty FillStore.
func NewFillStore() *FillStore {
	return &FillStore{fills: make(map[string][]*domain.Fill)}
}

// Append adds a fill to the instrument's chronological list.
func (s *FillStore) Append(instrument string, f *domain.Fill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fills[instrument] = append(s.fills[instrument], f)
}

// ByInstrument returns all fills for an instrument in chronological order.
// The returned slice is a copy.
func (s *FillStore) ByInstrument(instrument string) []*domain.Fill {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fills := s.fills[instrument]
	out := make([]*domain.Fill, len(fills))
	copy(out, fills)
	return out
}

// Count returns the total number of recorded fills across all instruments.
func (s *FillStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, fills := range s.fills {
		n += len(fills)
	}
	return n
}
