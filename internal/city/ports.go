package city

import (
	"context"

	"github.com/google/uuid"
)

// Seed rows arrive as raw strings, the way a spreadsheet-style store keeps
// them. The engine parses them once at session start.

type ZoneRecord struct {
	Zone   string `json:"zone"`
	Count  string `json:"count"`
	Income string `json:"income"`
}

type ResourceRecord struct {
	Name    string `json:"name"`
	Current string `json:"current_value"`
	Regen   string `json:"regeneration_rate"`
}

type EventRecord struct {
	Description string `json:"description"`
	ImpactType  string `json:"impact_type"`
	ImpactValue string `json:"impact_value"`
	Duration    string `json:"duration"`
}

// Store is the persistence boundary the session talks to.
type Store interface {
	LoadZoneCatalog(ctx context.Context) ([]ZoneRecord, error)
	LoadResourceDefaults(ctx context.Context) ([]ResourceRecord, error)
	LoadEventCatalog(ctx context.Context) ([]EventRecord, error)
	PersistResources(ctx context.Context, runID uuid.UUID, day int, snapshot []ResourceBalance) error
	ResetDefaults(ctx context.Context) error
}
