package city

import (
	"errors"
	"fmt"
)

const (
	DefaultGridSize       = 10
	DefaultDays           = 30
	DefaultMaxZonesPerDay = 3
	DefaultMonetaryGoal   = float64(2_000_000)

	// Commercial zones pay out this percentage of current Money once, on build.
	CommercialBonusPct = 5.0
)

var (
	ErrOutOfBounds       = errors.New("coordinates out of bounds")
	ErrOccupiedPlot      = errors.New("plot already occupied")
	ErrUnknownZone       = errors.New("unknown zone type")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDailyLimit        = errors.New("daily zone limit reached")
	ErrGameOver          = errors.New("game is over")
	ErrDayNotStarted     = errors.New("day has not started")
	ErrDayInProgress     = errors.New("day already in progress")
)

// ConfigurationError reports a malformed seed row. Loading continues with a
// fallback value.
type ConfigurationError struct {
	Source string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s row %d: invalid %s %q", e.Source, e.Row, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// PersistenceError wraps a failure from the external store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func clampMetric(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
