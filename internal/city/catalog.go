package city

import (
	"fmt"
	"strconv"
	"strings"
)

type ZoneSeed struct {
	Count  int
	Income float64
}

// ParseZoneCatalog turns raw zone rows into seed counts. Bad counts or
// incomes fall back to zero; unknown zone names are skipped.
func ParseZoneCatalog(rows []ZoneRecord) (map[ZoneType]ZoneSeed, []error) {
	out := make(map[ZoneType]ZoneSeed, len(rows))
	var errs []error
	for i, row := range rows {
		z, err := ParseZoneType(row.Zone)
		if err != nil || z == Empty {
			errs = append(errs, &ConfigurationError{Source: "zones", Row: i + 1, Field: "zone", Value: row.Zone, Err: err})
			continue
		}
		var seed ZoneSeed
		count := strings.TrimSpace(row.Count)
		if n, err := strconv.Atoi(count); err == nil && n >= 0 {
			seed.Count = n
		} else {
			errs = append(errs, &ConfigurationError{Source: "zones", Row: i + 1, Field: "count", Value: row.Count, Err: err})
		}
		if income := strings.TrimSpace(row.Income); income != "" {
			v, err := parseNumber(income)
			if err != nil {
				errs = append(errs, &ConfigurationError{Source: "zones", Row: i + 1, Field: "income", Value: row.Income, Err: err})
			} else {
				seed.Income = v
			}
		}
		out[z] = seed
	}
	return out, errs
}

// ParseResourceDefaults reads starting balances. Unparseable numbers become
// zero; unknown resource names are skipped.
func ParseResourceDefaults(rows []ResourceRecord) (map[Resource]Balance, []error) {
	out := make(map[Resource]Balance, len(rows))
	var errs []error
	for i, row := range rows {
		r, err := ParseResource(row.Name)
		if err != nil {
			errs = append(errs, &ConfigurationError{Source: "resources", Row: i + 1, Field: "name", Value: row.Name, Err: err})
			continue
		}
		var b Balance
		if v, err := parseNumber(row.Current); err == nil {
			b.Current = v
		} else {
			errs = append(errs, &ConfigurationError{Source: "resources", Row: i + 1, Field: "current value", Value: row.Current, Err: err})
		}
		if strings.TrimSpace(row.Regen) != "" {
			if v, err := parseNumber(row.Regen); err == nil {
				b.Regen = v
			} else {
				errs = append(errs, &ConfigurationError{Source: "resources", Row: i + 1, Field: "regeneration rate", Value: row.Regen, Err: err})
			}
		}
		out[r] = b
	}
	return out, errs
}

// ParseEventCatalog parses impact values once. Rows with an unreadable
// impact are dropped; a bad duration becomes one day.
func ParseEventCatalog(rows []EventRecord) ([]EventDefinition, []error) {
	out := make([]EventDefinition, 0, len(rows))
	var errs []error
	for i, row := range rows {
		desc := strings.TrimSpace(row.Description)
		if desc == "" {
			errs = append(errs, &ConfigurationError{Source: "events", Row: i + 1, Field: "description", Value: row.Description})
			continue
		}
		impact, err := ParseImpact(row.ImpactValue)
		if err != nil {
			errs = append(errs, &ConfigurationError{Source: "events", Row: i + 1, Field: "impact value", Value: row.ImpactValue, Err: err})
			continue
		}
		duration := 1
		if d, err := strconv.Atoi(strings.TrimSpace(row.Duration)); err == nil && d > 0 {
			duration = d
		} else {
			errs = append(errs, &ConfigurationError{Source: "events", Row: i + 1, Field: "duration", Value: row.Duration, Err: err})
		}
		out = append(out, EventDefinition{
			Description: desc,
			ImpactType:  strings.TrimSpace(row.ImpactType),
			Impact:      impact,
			Duration:    duration,
		})
	}
	return out, errs
}

// DailyIncome sums seed income over the zones that were actually placed.
func DailyIncome(placed map[ZoneType]int, seed map[ZoneType]ZoneSeed) float64 {
	total := 0.0
	for _, spec := range zoneCatalog {
		total += float64(placed[spec.Type]) * seed[spec.Type].Income
	}
	return total
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}
