package city

import (
	"log/slog"
	"math/rand"
	"strings"
)

type EventDefinition struct {
	Description string
	ImpactType  string
	Impact      Impact
	Duration    int
}

type ActiveEvent struct {
	Definition EventDefinition
	Remaining  int
	Active     bool
}

// impactTargets maps catalog impact-type phrases to the resource they hit.
var impactTargets = map[string]Resource{
	"an electricity supply reduction": Electricity,
	"an income reduction":             Money,
	"a water supply reduction":        Water,
}

// ImpactTarget resolves an impact type. Unknown types report ok=false and
// are ignored by the engine.
func ImpactTarget(impactType string) (Resource, bool) {
	r, ok := impactTargets[strings.ToLower(strings.TrimSpace(impactType))]
	return r, ok
}

type TickReport struct {
	Active     string
	ImpactType string
	Impact     Impact
	Started    bool
	Ended      string
	Remaining  int
	Applied    bool
	Resource   Resource
}

// EventEngine runs at most one catalog event at a time.
type EventEngine struct {
	events []ActiveEvent
	active int
	last   string
	rand   *rand.Rand
	log    *slog.Logger
}

func NewEventEngine(catalog []EventDefinition, rng *rand.Rand, logger *slog.Logger) *EventEngine {
	if logger == nil {
		logger = slog.Default()
	}
	events := make([]ActiveEvent, len(catalog))
	for i, def := range catalog {
		if def.Duration < 1 {
			def.Duration = 1
		}
		events[i] = ActiveEvent{Definition: def}
	}
	return &EventEngine{events: events, active: -1, rand: rng, log: logger}
}

// Active returns the running event, if any.
func (e *EventEngine) Active() (ActiveEvent, bool) {
	if e.active < 0 {
		return ActiveEvent{}, false
	}
	return e.events[e.active], true
}

func (e *EventEngine) Last() string { return e.last }

func (e *EventEngine) Catalog() []EventDefinition {
	out := make([]EventDefinition, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Definition
	}
	return out
}

func (e *EventEngine) ActiveCount() int {
	n := 0
	for _, ev := range e.events {
		if ev.Active {
			n++
		}
	}
	return n
}

// Tick advances the event state by one day and applies the active event's
// impact to the ledger.
func (e *EventEngine) Tick(ledger *Ledger) TickReport {
	var report TickReport
	if e.active >= 0 && e.events[e.active].Remaining <= 0 {
		ev := &e.events[e.active]
		ev.Active = false
		e.last = ev.Definition.Description
		report.Ended = e.last
		e.active = -1
	}

	if e.active < 0 {
		idx, ok := e.pick()
		if !ok {
			return report
		}
		ev := &e.events[idx]
		ev.Active = true
		ev.Remaining = ev.Definition.Duration
		e.active = idx
		report.Started = true
		e.log.Debug("event started", "event", ev.Definition.Description, "duration", ev.Definition.Duration)
	}

	ev := &e.events[e.active]
	report.Active = ev.Definition.Description
	report.ImpactType = ev.Definition.ImpactType
	report.Impact = ev.Definition.Impact
	if r, ok := ImpactTarget(ev.Definition.ImpactType); ok {
		ledger.ApplyImpact(r, ev.Definition.Impact)
		report.Applied = true
		report.Resource = r
	} else {
		e.log.Debug("event impact type not mapped", "event", ev.Definition.Description, "impact_type", ev.Definition.ImpactType)
	}
	ev.Remaining--
	report.Remaining = ev.Remaining
	return report
}

// pick chooses uniformly among events other than the one that just ended,
// falling back to the whole catalog when nothing else is available.
func (e *EventEngine) pick() (int, bool) {
	if len(e.events) == 0 {
		return 0, false
	}
	candidates := make([]int, 0, len(e.events))
	for i, ev := range e.events {
		if ev.Definition.Description != e.last {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return e.rand.Intn(len(e.events)), true
	}
	return candidates[e.rand.Intn(len(candidates))], true
}
