package city

import "fmt"

type Metric int

const (
	EmploymentRate Metric = iota
	CrimeRate
	HappinessIndex
	Health
)

// metricOrder is also the priority order for reported breaches.
var metricOrder = []Metric{EmploymentRate, CrimeRate, HappinessIndex, Health}

func Metrics() []Metric {
	out := make([]Metric, len(metricOrder))
	copy(out, metricOrder)
	return out
}

func (m Metric) String() string {
	switch m {
	case EmploymentRate:
		return "Employment Rate"
	case CrimeRate:
		return "Crime Rate"
	case HappinessIndex:
		return "Happiness Index"
	case Health:
		return "Health"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Threshold is a floor unless Ceiling is set.
type Threshold struct {
	Limit   int
	Ceiling bool
}

func (t Threshold) Breached(v int) bool {
	if t.Ceiling {
		return v > t.Limit
	}
	return v < t.Limit
}

var criticalThresholds = map[Metric]Threshold{
	EmploymentRate: {Limit: 50},
	CrimeRate:      {Limit: 30, Ceiling: true},
	HappinessIndex: {Limit: 50},
	Health:         {Limit: 50},
}

func ThresholdFor(m Metric) Threshold { return criticalThresholds[m] }

var initialMetrics = map[Metric]int{
	EmploymentRate: 70,
	CrimeRate:      5,
	HappinessIndex: 75,
	Health:         80,
}

// zoneEffects holds per-zone deltas for a single build.
var zoneEffects = map[ZoneType]map[Metric]int{
	Residential: {EmploymentRate: -5},
	Commercial:  {EmploymentRate: 2, HappinessIndex: -1},
	Industrial:  {HappinessIndex: -1, Health: -1},
	School:      {EmploymentRate: 2, HappinessIndex: 1},
	Hospital:    {Health: 5},
}

type Breach struct {
	Metric    Metric
	Value     int
	Threshold Threshold
}

func (b Breach) String() string {
	if b.Threshold.Ceiling {
		return fmt.Sprintf("%s is too high (%d > %d)", b.Metric, b.Value, b.Threshold.Limit)
	}
	return fmt.Sprintf("%s is too low (%d < %d)", b.Metric, b.Value, b.Threshold.Limit)
}

// MetricsBoard keeps every metric inside [0,100].
type MetricsBoard struct {
	values map[Metric]int
}

func NewMetricsBoard() *MetricsBoard {
	b := &MetricsBoard{values: make(map[Metric]int, len(metricOrder))}
	for _, m := range metricOrder {
		b.values[m] = initialMetrics[m]
	}
	return b
}

func (b *MetricsBoard) Value(m Metric) int { return b.values[m] }

func (b *MetricsBoard) Set(m Metric, v int) {
	b.values[m] = clampMetric(v)
}

func (b *MetricsBoard) ApplyZoneEffect(z ZoneType, count int) {
	for m, delta := range zoneEffects[z] {
		b.values[m] += delta * count
	}
	b.clamp()
}

func (b *MetricsBoard) clamp() {
	for _, m := range metricOrder {
		b.values[m] = clampMetric(b.values[m])
	}
}

// CheckCritical reports whether the city is still viable.
func (b *MetricsBoard) CheckCritical() bool {
	return len(b.Breaches()) == 0
}

func (b *MetricsBoard) Breaches() []Breach {
	var out []Breach
	for _, m := range metricOrder {
		t := criticalThresholds[m]
		if v := b.values[m]; t.Breached(v) {
			out = append(out, Breach{Metric: m, Value: v, Threshold: t})
		}
	}
	return out
}

// MeetsGoals is the end-of-game metric check: floors at or above their
// threshold and Crime Rate at or below its ceiling.
func (b *MetricsBoard) MeetsGoals() bool {
	return b.CheckCritical()
}

func (b *MetricsBoard) Snapshot() map[Metric]int {
	out := make(map[Metric]int, len(b.values))
	for m, v := range b.values {
		out[m] = v
	}
	return out
}
