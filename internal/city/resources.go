package city

import (
	"fmt"
	"strings"
)

type Resource int

const (
	Money Resource = iota
	Electricity
	Water
)

var resourceOrder = []Resource{Money, Electricity, Water}

func (r Resource) String() string {
	switch r {
	case Money:
		return "Money"
	case Electricity:
		return "Electricity"
	case Water:
		return "Water"
	default:
		return fmt.Sprintf("Resource(%d)", int(r))
	}
}

func ParseResource(s string) (Resource, error) {
	s = strings.TrimSpace(s)
	for _, r := range resourceOrder {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", s)
}

type Balance struct {
	Current float64
	Regen   float64
}

// ResourceBalance is a named Balance, the unit handed to the store.
type ResourceBalance struct {
	Resource Resource
	Balance
}

// Ledger holds resource values. Values are never clamped; an additive impact
// can take one below zero.
type Ledger struct {
	values map[Resource]Balance
}

func NewLedger(initial map[Resource]Balance) *Ledger {
	l := &Ledger{values: make(map[Resource]Balance, len(resourceOrder))}
	for _, r := range resourceOrder {
		l.values[r] = initial[r]
	}
	return l
}

func (l *Ledger) Get(r Resource) Balance { return l.values[r] }

func (l *Ledger) Current(r Resource) float64 { return l.values[r].Current }

func (l *Ledger) Set(r Resource, b Balance) { l.values[r] = b }

// Regenerate applies each resource's regeneration rate, then credits the
// day's zone income to Money.
func (l *Ledger) Regenerate(dailyIncome float64) {
	for r, b := range l.values {
		b.Current += b.Regen
		l.values[r] = b
	}
	b := l.values[Money]
	b.Current += dailyIncome
	l.values[Money] = b
}

func (l *Ledger) ApplyImpact(r Resource, impact Impact) {
	b := l.values[r]
	b.Current = impact.Apply(b.Current)
	l.values[r] = b
}

func (l *Ledger) CanAfford(r Resource, amount float64) bool {
	return l.values[r].Current >= amount
}

func (l *Ledger) Deduct(r Resource, amount float64) error {
	if !l.CanAfford(r, amount) {
		return fmt.Errorf("%w: need %.2f %s, have %.2f", ErrInsufficientFunds, amount, r, l.values[r].Current)
	}
	b := l.values[r]
	b.Current -= amount
	l.values[r] = b
	return nil
}

func (l *Ledger) Snapshot() []ResourceBalance {
	out := make([]ResourceBalance, 0, len(resourceOrder))
	for _, r := range resourceOrder {
		out = append(out, ResourceBalance{Resource: r, Balance: l.values[r]})
	}
	return out
}
