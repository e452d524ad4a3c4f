package store

import (
	"sort"
	"sync"

	"github.com/Reece236/StockMarketSim/internal/domain"
)

// Registry is the process-wide instrument registry. Instruments are added
// once at bootstrap and never removed during a run; their prices and share
// counters are mutated only by the matching engine.
type Registry struct {
	mu          sync.RWMutex
	instruments map[string]*domain.Instrument
	ids         []string // sorted, for deterministic iteration
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{instruments: make(map[string]*domain.Instrument)}
}

// Add registers an instrument. It returns domain.ErrInstrumentExists if an
// instrument with the same ID is already listed.
func (r *Registry) Add(inst *domain.Instrument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instruments[inst.ID]; exists {
		return domain.ErrInstrumentExists
	}
	r.instruments[inst.ID] = inst
	r.ids = append(r.ids, inst.ID)
	sort.Strings(r.ids)
	return nil
}

// Get retrieves an instrument by ID.
func (r *Registry) Get(id string) (*domain.Instrument, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.instruments[id]
	return inst, ok
}

// List returns all instruments sorted by ID. The slice is a copy; the
// instruments themselves are shared.
func (r *Registry) List() []*domain.Instrument {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Instrument, 0, len(r.ids))
	for _, id := range r.ids {
		out = append(out, r.instruments[id])
	}
	return out
}

// BySector groups instrument IDs by sector tag, each group sorted by ID.
func (r *Registry) BySector() map[domain.Sector][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make(map[domain.Sector][]string)
	for _, id := range r.ids {
		inst := r.instruments[id]
		groups[inst.Sector] = append(groups[inst.Sector], id)
	}
	return groups
}

// Count returns the number of listed instruments.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instruments)
}
