package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"metropolis/internal/city"
)

const fileName = "city.json"

type document struct {
	Zones     []city.ZoneRecord     `json:"zones"`
	Resources []city.ResourceRecord `json:"resources"`
	Events    []city.EventRecord    `json:"events"`
	LastRunID string                `json:"last_run_id,omitempty"`
	LastDay   int                   `json:"last_day,omitempty"`
}

// File keeps the sheets in a single JSON document on disk.
type File struct {
	mu   sync.Mutex
	path string
}

// DefaultDir is ~/.metropolis.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".metropolis"), nil
}

func NewFile(dir string) (*File, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &File{path: filepath.Join(dir, fileName)}, nil
}

func (f *File) Path() string { return f.path }

func (f *File) LoadZoneCatalog(ctx context.Context) ([]city.ZoneRecord, error) {
	doc, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Zones, nil
}

func (f *File) LoadResourceDefaults(ctx context.Context) ([]city.ResourceRecord, error) {
	doc, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Resources, nil
}

func (f *File) LoadEventCatalog(ctx context.Context) ([]city.EventRecord, error) {
	doc, err := f.read(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Events, nil
}

func (f *File) PersistResources(ctx context.Context, runID uuid.UUID, day int, snapshot []city.ResourceBalance) error {
	return f.update(ctx, func(doc *document) {
		doc.Resources = recordsFromSnapshot(snapshot)
		doc.LastRunID = runID.String()
		doc.LastDay = day
	})
}

func (f *File) ResetDefaults(ctx context.Context) error {
	return f.update(ctx, func(doc *document) {
		doc.Resources = DefaultResources()
		doc.LastRunID = ""
		doc.LastDay = 0
	})
}

func (f *File) read(ctx context.Context) (document, error) {
	if err := ctx.Err(); err != nil {
		return document{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked()
}

func (f *File) update(ctx context.Context, fn func(*document)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.loadLocked()
	if err != nil {
		return err
	}
	fn(&doc)
	return f.saveLocked(doc)
}

// loadLocked creates the document with default sheets on first use.
func (f *File) loadLocked() (document, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			doc := document{Zones: DefaultZones(), Resources: DefaultResources(), Events: DefaultEvents()}
			return doc, f.saveLocked(doc)
		}
		return document{}, err
	}
	var doc document
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return document{}, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File) saveLocked(doc document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
