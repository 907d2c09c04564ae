package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"metropolis/internal/city"
)

// Memory keeps the three sheets in process.
type Memory struct {
	mu        sync.Mutex
	zones     []city.ZoneRecord
	resources []city.ResourceRecord
	events    []city.EventRecord
	history   []HistoryRow
}

// HistoryRow is one persisted end-of-day snapshot.
type HistoryRow struct {
	RunID     uuid.UUID
	Day       int
	Resources []city.ResourceBalance
}

func NewMemory() *Memory {
	return &Memory{
		zones:     DefaultZones(),
		resources: DefaultResources(),
		events:    DefaultEvents(),
	}
}

// NewMemoryWith seeds the store with custom sheets. Nil slices fall back to
// the defaults.
func NewMemoryWith(zones []city.ZoneRecord, resources []city.ResourceRecord, events []city.EventRecord) *Memory {
	m := NewMemory()
	if zones != nil {
		m.zones = append([]city.ZoneRecord(nil), zones...)
	}
	if resources != nil {
		m.resources = append([]city.ResourceRecord(nil), resources...)
	}
	if events != nil {
		m.events = append([]city.EventRecord(nil), events...)
	}
	return m
}

func (m *Memory) LoadZoneCatalog(ctx context.Context) ([]city.ZoneRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]city.ZoneRecord(nil), m.zones...), nil
}

func (m *Memory) LoadResourceDefaults(ctx context.Context) ([]city.ResourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]city.ResourceRecord(nil), m.resources...), nil
}

func (m *Memory) LoadEventCatalog(ctx context.Context) ([]city.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]city.EventRecord(nil), m.events...), nil
}

func (m *Memory) PersistResources(ctx context.Context, runID uuid.UUID, day int, snapshot []city.ResourceBalance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = recordsFromSnapshot(snapshot)
	m.history = append(m.history, HistoryRow{
		RunID:     runID,
		Day:       day,
		Resources: append([]city.ResourceBalance(nil), snapshot...),
	})
	return nil
}

// ResetDefaults restores the resource sheet. Zone and event sheets are
// read-only to the engine and are left alone.
func (m *Memory) ResetDefaults(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = DefaultResources()
	return nil
}

func (m *Memory) History() []HistoryRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]HistoryRow(nil), m.history...)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
