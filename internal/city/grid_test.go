package city

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPlaceZone(t *testing.T) {
	g := NewGrid(10)
	if err := g.PlaceZone(3, 4, School); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := g.At(3, 4); got != School {
		t.Fatalf("cell=%v want School", got)
	}
	if err := g.PlaceZone(3, 4, Hospital); !errors.Is(err, ErrOccupiedPlot) {
		t.Fatalf("expected ErrOccupiedPlot, got %v", err)
	}
	if got := g.At(3, 4); got != School {
		t.Fatalf("occupied cell changed to %v", got)
	}
}

func TestPlaceZoneBounds(t *testing.T) {
	g := NewGrid(10)
	coords := [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 10}, {10, 10}}
	for _, c := range coords {
		if err := g.PlaceZone(c[0], c[1], Residential); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("(%d,%d): expected ErrOutOfBounds, got %v", c[0], c[1], err)
		}
	}
	if err := g.PlaceZone(9, 9, Residential); err != nil {
		t.Fatalf("corner placement failed: %v", err)
	}
}

func TestPlaceZoneRejectsEmpty(t *testing.T) {
	g := NewGrid(3)
	if err := g.PlaceZone(0, 0, Empty); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

func TestRandomInitialize(t *testing.T) {
	g := NewGrid(10)
	counts := map[ZoneType]int{Residential: 5, Commercial: 3, Hospital: 1}
	placed := g.RandomInitialize(counts, rand.New(rand.NewSource(7)))

	got := g.Counts()
	for z, want := range counts {
		if got[z] != want || placed[z] != want {
			t.Fatalf("%v: grid=%d placed=%d want %d", z, got[z], placed[z], want)
		}
	}
	if got[Industrial] != 0 || got[School] != 0 {
		t.Fatalf("unrequested zones placed: %v", got)
	}
}

func TestRandomInitializeInsufficientSpace(t *testing.T) {
	g := NewGrid(3)
	placed := g.RandomInitialize(map[ZoneType]int{Residential: 5, Commercial: 10, School: 2}, rand.New(rand.NewSource(1)))
	if placed[Residential] != 5 {
		t.Fatalf("residential placed=%d want 5", placed[Residential])
	}
	if placed[Commercial] != 4 {
		t.Fatalf("commercial placed=%d want 4 (remaining space)", placed[Commercial])
	}
	if placed[School] != 0 {
		t.Fatalf("school placed=%d want 0", placed[School])
	}
	total := 0
	for _, n := range g.Counts() {
		total += n
	}
	if total != 9 {
		t.Fatalf("total=%d want 9", total)
	}
}

func TestRandomInitializeClearsGrid(t *testing.T) {
	g := NewGrid(4)
	_ = g.PlaceZone(0, 0, Industrial)
	g.RandomInitialize(nil, rand.New(rand.NewSource(1)))
	if len(g.Counts()) != 0 {
		t.Fatalf("expected empty grid, got %v", g.Counts())
	}
}

func TestParseZoneType(t *testing.T) {
	tests := []struct {
		in   string
		want ZoneType
	}{
		{"R", Residential},
		{"c", Commercial},
		{"industrial", Industrial},
		{" School ", School},
		{"HOSPITAL", Hospital},
	}
	for _, tc := range tests {
		got, err := ParseZoneType(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseZoneType(%q)=%v,%v want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParseZoneType("park"); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}
