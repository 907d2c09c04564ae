package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"metropolis/internal/city"
)

func sampleSnapshot() []city.ResourceBalance {
	return []city.ResourceBalance{
		{Resource: city.Money, Balance: city.Balance{Current: 12500.5}},
		{Resource: city.Electricity, Balance: city.Balance{Current: 480, Regen: 5}},
		{Resource: city.Water, Balance: city.Balance{Current: 505, Regen: 5}},
	}
}

func TestMemoryPersistAndReset(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	runID := uuid.New()

	if err := m.PersistResources(ctx, runID, 4, sampleSnapshot()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	rows, err := m.LoadResourceDefaults(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rows[0].Name != "Money" || rows[0].Current != "12500.5" {
		t.Fatalf("money row=%+v", rows[0])
	}
	hist := m.History()
	if len(hist) != 1 || hist[0].RunID != runID || hist[0].Day != 4 {
		t.Fatalf("history=%+v", hist)
	}

	if err := m.ResetDefaults(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	rows, _ = m.LoadResourceDefaults(ctx)
	if rows[0].Current != "10000" {
		t.Fatalf("reset money=%q want 10000", rows[0].Current)
	}
}

func TestMemoryWithCustomSheets(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryWith([]city.ZoneRecord{}, nil, []city.EventRecord{})
	zones, _ := m.LoadZoneCatalog(ctx)
	events, _ := m.LoadEventCatalog(ctx)
	resources, _ := m.LoadResourceDefaults(ctx)
	if len(zones) != 0 || len(events) != 0 {
		t.Fatalf("zones=%d events=%d want empty", len(zones), len(events))
	}
	if len(resources) != 3 {
		t.Fatalf("resources=%d want defaults", len(resources))
	}
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemory().LoadZoneCatalog(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDefaultsParse(t *testing.T) {
	if _, errs := city.ParseZoneCatalog(DefaultZones()); len(errs) != 0 {
		t.Fatalf("zone defaults: %v", errs)
	}
	if _, errs := city.ParseResourceDefaults(DefaultResources()); len(errs) != 0 {
		t.Fatalf("resource defaults: %v", errs)
	}
	events, errs := city.ParseEventCatalog(DefaultEvents())
	if len(errs) != 0 || len(events) != 5 {
		t.Fatalf("event defaults: %d events, %v", len(events), errs)
	}
}

func TestMemoryDrivesSession(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	s := city.NewSession(city.Config{Seed: 3, Days: 2}, m, nil)
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := s.State().DailyIncome; got != 2020 {
		t.Fatalf("daily income=%v want 2020", got)
	}
	if _, err := s.BeginDay(ctx); err != nil {
		t.Fatalf("begin day: %v", err)
	}
	if _, err := s.EndDay(ctx); err != nil {
		t.Fatalf("end day: %v", err)
	}
	if hist := m.History(); len(hist) != 1 || hist[0].RunID != s.State().RunID {
		t.Fatalf("history=%+v", hist)
	}
}
