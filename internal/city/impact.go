package city

import (
	"fmt"
	"strconv"
	"strings"
)

type ImpactKind int

const (
	Additive ImpactKind = iota
	Percentage
)

// Impact is an event's effect on a single resource value.
type Impact struct {
	Kind  ImpactKind
	Value float64
}

// ParseImpact reads "N%" as a percentage and anything else as a literal delta.
func ParseImpact(raw string) (Impact, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	kind := Additive
	if strings.HasSuffix(s, "%") {
		kind = Percentage
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Impact{}, fmt.Errorf("parse impact %q: %w", raw, err)
	}
	return Impact{Kind: kind, Value: v}, nil
}

func (i Impact) Apply(current float64) float64 {
	if i.Kind == Percentage {
		return current * (1 + i.Value/100)
	}
	return current + i.Value
}

func (i Impact) String() string {
	v := strconv.FormatFloat(i.Value, 'f', -1, 64)
	if i.Kind == Percentage {
		return v + "%"
	}
	return v
}
