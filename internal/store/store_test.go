package store

import (
	"errors"
	"testing"

	"github.com/Reece236/StockMarketSim/internal/domain"
)

func TestRegistry_AddGetList(t *testing.T) {
	r := NewRegistry()
	b := domain.NewInstrument("RC-02", 50, 1000, domain.SectorEnergy, 0.4)
	a := domain.NewInstrument("RC-01", 100, 2000, domain.SectorTech, 0.2)
	if err := r.Add(b); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.Add(a); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := r.Add(domain.NewInstrument("RC-01", 1, 1, domain.SectorTech, 0)); !errors.Is(err, domain.ErrInstrumentExists) {
		t.Errorf("duplicate add: expected ErrInstrumentExists, got %v", err)
	}

	got, ok := r.Get("RC-01")
	if !ok || got != a {
		t.Errorf("get returned %v, %v", got, ok)
	}
	if _, ok := r.Get("RC-99"); ok {
		t.Error("get of unknown instrument succeeded")
	}

	// List is ID-sorted regardless of insertion order.
	listed := r.List()
	if len(listed) != 2 || listed[0].ID != "RC-01" || listed[1].ID != "RC-02" {
		t.Errorf("list not sorted: %v", listed)
	}
	if r.Count() != 2 {
		t.Errorf("count = %d, want 2", r.Count())
	}
}

func TestRegistry_BySector(t *testing.T) {
	r := NewRegistry()
	_ = r.Add(domain.NewInstrument("RC-01", 100, 1000, domain.SectorTech, 0.2))
	_ = r.Add(domain.NewInstrument("RC-03", 10, 1000, domain.SectorTech, 0.9))
	_ = r.Add(domain.NewInstrument("RC-02", 50, 1000, domain.SectorEnergy, 0.4))

	groups := r.BySector()
	if len(groups[domain.SectorTech]) != 2 || len(groups[domain.SectorEnergy]) != 1 {
		t.Errorf("sector groups wrong: %v", groups)
	}
	tech := groups[domain.SectorTech]
	if tech[0] != "RC-01" || tech[1] != "RC-03" {
		t.Errorf("sector group not sorted: %v", tech)
	}
}

func TestTraderStore_AddGetListOrder(t *testing.T) {
	s := NewTraderStore()
	first := domain.NewTrader("zeta", 100, 0.5)
	second := domain.NewTrader("alpha", 100, 0.5)
	_ = s.Add(first)
	_ = s.Add(second)

	if err := s.Add(domain.NewTrader("zeta", 0, 0)); !errors.Is(err, domain.ErrTraderExists) {
		t.Errorf("duplicate add: expected ErrTraderExists, got %v", err)
	}
	if _, err := s.Get("missing"); !errors.Is(err, domain.ErrTraderNotFound) {
		t.Errorf("expected ErrTraderNotFound, got %v", err)
	}

	// List preserves registration order, not ID order.
	listed := s.List()
	if len(listed) != 2 || listed[0].ID != "zeta" || listed[1].ID != "alpha" {
		t.Errorf("list order wrong: %v", listed)
	}
}

func TestFillStore_AppendAndCopySemantics(t *testing.T) {
	s := NewFillStore()
	s.Append("RC-01", &domain.Fill{FillID: "f1", Instrument: "RC-01", Quantity: 5, Price: 10})
	s.Append("RC-01", &domain.Fill{FillID: "f2", Instrument: "RC-01", Quantity: 3, Price: 11})
	s.Append("RC-02", &domain.Fill{FillID: "f3", Instrument: "RC-02", Quantity: 1, Price: 9})

	fills := s.ByInstrument("RC-01")
	if len(fills) != 2 || fills[0].FillID != "f1" || fills[1].FillID != "f2" {
		t.Errorf("fills = %v", fills)
	}
	if s.Count() != 3 {
		t.Errorf("count = %d, want 3", s.Count())
	}

	// Mutating the returned slice must not affect the store.
	fills[0] = nil
	if got := s.ByInstrument("RC-01"); got[0] == nil {
		t.Error("ByInstrument returned aliased slice")
	}

	if got := s.ByInstrument("RC-99"); len(got) != 0 {
		t.Errorf("unknown instrument fills = %v, want empty", got)
	}
}
