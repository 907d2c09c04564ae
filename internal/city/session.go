package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var ErrNoGame = errors.New("no game in progress")

type Config struct {
	GridSize       int
	Days           int
	MaxZonesPerDay int // <= 0 disables the cap
	MonetaryGoal   float64
	Seed           int64 // 0 seeds from the clock
}

func (c Config) withDefaults() Config {
	if c.GridSize <= 0 {
		c.GridSize = DefaultGridSize
	}
	if c.Days <= 0 {
		c.Days = DefaultDays
	}
	if c.MonetaryGoal <= 0 {
		c.MonetaryGoal = DefaultMonetaryGoal
	}
	return c
}

type Phase int

const (
	PhaseDawn Phase = iota
	PhasePlanning
	PhaseOver
)

type Outcome struct {
	Over     bool
	Won      bool
	Reason   string
	Breaches []Breach
}

// State is everything one run owns. Only Session methods mutate it.
type State struct {
	RunID           uuid.UUID
	Grid            *Grid
	Resources       *Ledger
	Metrics         *MetricsBoard
	Events          *EventEngine
	Day             int
	ZonesBuiltToday int
	DailyIncome     float64
	Phase           Phase
	Outcome         Outcome
}

func (s *State) GameOver() bool { return s.Phase == PhaseOver }

type DayReport struct {
	Day     int
	Event   TickReport
	Outcome Outcome
}

type BuildReport struct {
	X, Y       int
	Zone       ZoneType
	Cost       float64
	Bonus      float64
	Money      float64
	BuiltToday int
}

type Session struct {
	cfg   Config
	store Store
	log   *slog.Logger
	rand  *rand.Rand
	state *State

	lastPersistErr error
}

func NewSession(cfg Config, store Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Session{
		cfg:   cfg,
		store: store,
		log:   logger,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (s *Session) Config() Config { return s.cfg }

func (s *Session) State() *State { return s.state }

func (s *Session) LastPersistError() error { return s.lastPersistErr }

// Start resets the store to its defaults and builds a fresh run from its
// seed data. Unusable seed data is logged and replaced with an empty grid,
// zero balances or an empty event catalog.
func (s *Session) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.ResetDefaults(ctx); err != nil {
		s.log.Warn("reset defaults failed", "err", &PersistenceError{Op: "reset defaults", Err: err})
	}

	runID := uuid.New()
	log := s.log.With("run_id", runID.String())

	zoneSeed := map[ZoneType]ZoneSeed{}
	if rows, err := s.store.LoadZoneCatalog(ctx); err != nil {
		log.Warn("load zone catalog failed, starting with an empty grid", "err", err)
	} else {
		var errs []error
		zoneSeed, errs = ParseZoneCatalog(rows)
		logConfigErrors(log, errs)
	}

	balances := map[Resource]Balance{}
	if rows, err := s.store.LoadResourceDefaults(ctx); err != nil {
		log.Warn("load resource defaults failed, starting from zero", "err", err)
	} else {
		var errs []error
		balances, errs = ParseResourceDefaults(rows)
		logConfigErrors(log, errs)
	}

	var catalog []EventDefinition
	if rows, err := s.store.LoadEventCatalog(ctx); err != nil {
		log.Warn("load event catalog failed, events disabled", "err", err)
	} else {
		var errs []error
		catalog, errs = ParseEventCatalog(rows)
		logConfigErrors(log, errs)
	}

	grid := NewGrid(s.cfg.GridSize)
	counts := make(map[ZoneType]int, len(zoneSeed))
	for z, seed := range zoneSeed {
		counts[z] = seed.Count
	}
	placed := grid.RandomInitialize(counts, s.rand)

	s.state = &State{
		RunID:       runID,
		Grid:        grid,
		Resources:   NewLedger(balances),
		Metrics:     NewMetricsBoard(),
		Events:      NewEventEngine(catalog, s.rand, log),
		Day:         1,
		DailyIncome: DailyIncome(placed, zoneSeed),
		Phase:       PhaseDawn,
	}
	s.lastPersistErr = nil
	log.Info("game started", "grid_size", grid.Size(), "daily_income", s.state.DailyIncome, "events", len(catalog))
	return nil
}

// Restart throws the current run away and starts over from day 1.
func (s *Session) Restart(ctx context.Context) error {
	if s.state != nil {
		s.log.Info("game restarted", "run_id", s.state.RunID.String(), "day", s.state.Day)
	}
	return s.Start(ctx)
}

// Exit resets the store to its defaults and closes the current run.
func (s *Session) Exit(ctx context.Context) error {
	if err := s.store.ResetDefaults(ctx); err != nil {
		s.log.Warn("reset defaults failed", "err", &PersistenceError{Op: "reset defaults", Err: err})
	}
	if s.state != nil && !s.state.GameOver() {
		s.state.Phase = PhaseOver
		s.state.Outcome = Outcome{Over: true, Reason: "player exited"}
	}
	return nil
}

// BeginDay runs the morning of the current day: event tick, regeneration,
// then the metric check. A breach ends the game.
func (s *Session) BeginDay(ctx context.Context) (DayReport, error) {
	st := s.state
	if st == nil {
		return DayReport{}, ErrNoGame
	}
	switch st.Phase {
	case PhaseOver:
		return DayReport{Day: st.Day, Outcome: st.Outcome}, ErrGameOver
	case PhasePlanning:
		return DayReport{Day: st.Day}, ErrDayInProgress
	}

	report := DayReport{Day: st.Day}
	report.Event = st.Events.Tick(st.Resources)
	st.Resources.Regenerate(st.DailyIncome)

	if breaches := st.Metrics.Breaches(); len(breaches) > 0 {
		st.Phase = PhaseOver
		st.Outcome = Outcome{Over: true, Reason: "metrics reached critical levels", Breaches: breaches}
		report.Outcome = st.Outcome
		s.persist(ctx)
		s.log.Info("game lost", "run_id", st.RunID.String(), "day", st.Day, "breach", breaches[0].String())
		return report, nil
	}
	st.Phase = PhasePlanning
	return report, nil
}

// Build places a zone, pays for it and applies its metric effects. Either
// all of that happens or none of it does.
func (s *Session) Build(ctx context.Context, x, y int, z ZoneType) (BuildReport, error) {
	st, err := s.planning()
	if err != nil {
		return BuildReport{}, err
	}
	spec, ok := SpecFor(z)
	if !ok {
		return BuildReport{}, ErrUnknownZone
	}
	if s.cfg.MaxZonesPerDay > 0 && st.ZonesBuiltToday >= s.cfg.MaxZonesPerDay {
		return BuildReport{}, ErrDailyLimit
	}
	if err := st.Grid.CanPlace(x, y); err != nil {
		return BuildReport{}, err
	}
	if err := st.Resources.Deduct(Money, spec.BuildCost); err != nil {
		return BuildReport{}, err
	}
	if err := st.Grid.PlaceZone(x, y, z); err != nil {
		return BuildReport{}, fmt.Errorf("place %s at %d,%d: %w", z, x, y, err)
	}
	st.Metrics.ApplyZoneEffect(z, 1)

	report := BuildReport{X: x, Y: y, Zone: z, Cost: spec.BuildCost}
	if z == Commercial {
		before := st.Resources.Current(Money)
		st.Resources.ApplyImpact(Money, Impact{Kind: Percentage, Value: CommercialBonusPct})
		report.Bonus = st.Resources.Current(Money) - before
	}
	st.ZonesBuiltToday++
	report.Money = st.Resources.Current(Money)
	report.BuiltToday = st.ZonesBuiltToday
	s.log.Debug("zone built", "run_id", st.RunID.String(), "day", st.Day, "zone", z.String(), "x", x, "y", y)
	return report, nil
}

// EndDay flushes resources to the store and moves to the next day. After the
// final day the run is scored.
func (s *Session) EndDay(ctx context.Context) (Outcome, error) {
	st, err := s.planning()
	if err != nil {
		return Outcome{}, err
	}
	s.persist(ctx)
	st.Day++
	st.ZonesBuiltToday = 0
	st.Phase = PhaseDawn
	if st.Day > s.cfg.Days {
		s.evaluate()
	}
	return st.Outcome, nil
}

func (s *Session) evaluate() {
	st := s.state
	money := st.Resources.Current(Money)
	out := Outcome{Over: true}
	switch {
	case money < s.cfg.MonetaryGoal:
		out.Reason = fmt.Sprintf("monetary goal not met (%.2f < %.2f)", money, s.cfg.MonetaryGoal)
	case !st.Metrics.MeetsGoals():
		out.Breaches = st.Metrics.Breaches()
		out.Reason = "metrics did not meet their targets"
	default:
		out.Won = true
		out.Reason = "monetary goal reached with healthy metrics"
	}
	st.Phase = PhaseOver
	st.Outcome = out
	s.log.Info("game finished", "run_id", st.RunID.String(), "won", out.Won, "money", money)
}

func (s *Session) planning() (*State, error) {
	st := s.state
	if st == nil {
		return nil, ErrNoGame
	}
	switch st.Phase {
	case PhaseOver:
		return nil, ErrGameOver
	case PhaseDawn:
		return nil, ErrDayNotStarted
	}
	return st, nil
}

// persist is best effort; the in-memory state stays authoritative.
func (s *Session) persist(ctx context.Context) {
	st := s.state
	err := s.store.PersistResources(ctx, st.RunID, st.Day, st.Resources.Snapshot())
	if err != nil {
		s.lastPersistErr = &PersistenceError{Op: "resources", Err: err}
		s.log.Warn("persist resources failed", "run_id", st.RunID.String(), "day", st.Day, "err", err)
		return
	}
	s.lastPersistErr = nil
}

func logConfigErrors(log *slog.Logger, errs []error) {
	for _, err := range errs {
		log.Warn("seed data", "err", err)
	}
}
