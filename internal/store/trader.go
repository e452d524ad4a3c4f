package store

import (
	"sync"

	"github.com/Reece236/StockMarketSim/internal/domain"
)

// TraderStore is a thread-safe in-memory store for traders, keyed by
// trader ID. List preserves registration order, which the market relies on
// for a deterministic order-collection pass.
type TraderStore struct {
	mu      sync.RWMutex
	traders map[string]*domain.Trader
	order   []string
}

// NewTraderStore creates an empty TraderStore.
func NewTraderStore() *TraderStore {
	return &TraderStore{traders: make(map[string]*domain.Trader)}
}

// Add registers a trader. It returns domain.ErrTraderExists if a trader
// with the same ID already exists.
func (s *TraderStore) Add(t *domain.Trader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.traders[t.ID]; exists {
		return domain.ErrTraderExists
	}
	s.traders[t.ID] = t
	s.order = append(s.order, t.ID)
	return nil
}

// Get retrieves a trader by ID. It returns domain.ErrTraderNotFound if the
// trader does not exist.
func (s *TraderStore) Get(id string) (*domain.Trader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.traders[id]
	if !ok {
		return nil, domain.ErrTraderNotFound
	}
	return t, nil
}

// List returns all traders in registration order.
func (s *TraderStore) List() []*domain.Trader {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Trader, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.traders[id])
	}
	return out
}

// Count returns the number of registered traders.
func (s *TraderStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.traders)
}
