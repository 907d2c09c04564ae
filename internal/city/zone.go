package city

import (
	"fmt"
	"strings"
)

type ZoneType int

const (
	Empty ZoneType = iota
	Residential
	Commercial
	Industrial
	School
	Hospital
)

// ZoneSpec is the fixed cost/income entry for one zone type.
type ZoneSpec struct {
	Type        ZoneType
	Name        string
	Code        string
	BuildCost   float64
	DailyIncome float64
}

// zoneCatalog is in catalog order; random seeding and rendering rely on it.
var zoneCatalog = []ZoneSpec{
	{Type: Residential, Name: "Residential", Code: "R", BuildCost: 1250, DailyIncome: 250},
	{Type: Commercial, Name: "Commercial", Code: "C", BuildCost: 450, DailyIncome: 100},
	{Type: Industrial, Name: "Industrial", Code: "I", BuildCost: 450, DailyIncome: 75},
	{Type: School, Name: "School", Code: "S", BuildCost: 100, DailyIncome: 20},
	{Type: Hospital, Name: "Hospital", Code: "H", BuildCost: 100, DailyIncome: 30},
}

func ZoneCatalog() []ZoneSpec {
	out := make([]ZoneSpec, len(zoneCatalog))
	copy(out, zoneCatalog)
	return out
}

func SpecFor(z ZoneType) (ZoneSpec, bool) {
	for _, spec := range zoneCatalog {
		if spec.Type == z {
			return spec, true
		}
	}
	return ZoneSpec{}, false
}

func (z ZoneType) String() string {
	if z == Empty {
		return "Empty"
	}
	if spec, ok := SpecFor(z); ok {
		return spec.Name
	}
	return fmt.Sprintf("ZoneType(%d)", int(z))
}

// ParseZoneType accepts a full zone name or its one-letter code, case-insensitive.
func ParseZoneType(s string) (ZoneType, error) {
	s = strings.TrimSpace(s)
	for _, spec := range zoneCatalog {
		if strings.EqualFold(s, spec.Name) || strings.EqualFold(s, spec.Code) {
			return spec.Type, nil
		}
	}
	return Empty, fmt.Errorf("%w: %q", ErrUnknownZone, s)
}
