package city

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeStore struct {
	zones     []ZoneRecord
	resources []ResourceRecord
	events    []EventRecord

	persistErr error
	persisted  []int
	resets     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		resources: []ResourceRecord{
			{Name: "Money", Current: "10000", Regen: "0"},
			{Name: "Electricity", Current: "500", Regen: "5"},
			{Name: "Water", Current: "500", Regen: "5"},
		},
	}
}

func (f *fakeStore) LoadZoneCatalog(context.Context) ([]ZoneRecord, error) { return f.zones, nil }

func (f *fakeStore) LoadResourceDefaults(context.Context) ([]ResourceRecord, error) {
	return f.resources, nil
}

func (f *fakeStore) LoadEventCatalog(context.Context) ([]EventRecord, error) { return f.events, nil }

func (f *fakeStore) PersistResources(_ context.Context, _ uuid.UUID, day int, _ []ResourceBalance) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	f.persisted = append(f.persisted, day)
	return nil
}

func (f *fakeStore) ResetDefaults(context.Context) error {
	f.resets++
	return nil
}

func startSession(t *testing.T, cfg Config, store Store) *Session {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	s := NewSession(cfg, store, discardLogger())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func openDay(t *testing.T, s *Session) DayReport {
	t.Helper()
	r, err := s.BeginDay(context.Background())
	if err != nil {
		t.Fatalf("begin day: %v", err)
	}
	return r
}

func TestSessionStartSeedsGridAndIncome(t *testing.T) {
	store := newFakeStore()
	store.zones = []ZoneRecord{
		{Zone: "Residential", Count: "2", Income: "250"},
		{Zone: "Commercial", Count: "1", Income: "100"},
	}
	s := startSession(t, Config{}, store)
	st := s.State()

	counts := st.Grid.Counts()
	if counts[Residential] != 2 || counts[Commercial] != 1 {
		t.Fatalf("grid counts=%v", counts)
	}
	if st.DailyIncome != 600 {
		t.Fatalf("daily income=%v want 600", st.DailyIncome)
	}
	if st.Day != 1 || st.Phase != PhaseDawn {
		t.Fatalf("day=%d phase=%v", st.Day, st.Phase)
	}
	if st.RunID == uuid.Nil {
		t.Fatalf("run id not assigned")
	}
	if store.resets != 1 {
		t.Fatalf("resets=%d want 1", store.resets)
	}

	openDay(t, s)
	if got := st.Resources.Current(Money); got != 10600 {
		t.Fatalf("money=%v want 10600", got)
	}
	if got := st.Resources.Current(Water); got != 505 {
		t.Fatalf("water=%v want 505", got)
	}
}

func TestSessionBuildFunds(t *testing.T) {
	store := newFakeStore()
	store.resources[0].Current = "1000"
	s := startSession(t, Config{}, store)
	openDay(t, s)
	st := s.State()

	if _, err := s.Build(context.Background(), 0, 0, Residential); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if st.Grid.At(0, 0) != Empty || st.Resources.Current(Money) != 1000 {
		t.Fatalf("failed build mutated state: cell=%v money=%v", st.Grid.At(0, 0), st.Resources.Current(Money))
	}
	if st.Metrics.Value(EmploymentRate) != 70 {
		t.Fatalf("failed build changed metrics")
	}

	r, err := s.Build(context.Background(), 0, 0, School)
	if err != nil {
		t.Fatalf("build school: %v", err)
	}
	if r.Cost != 100 || r.Money != 900 || st.Grid.At(0, 0) != School {
		t.Fatalf("unexpected report %+v", r)
	}
	if st.Metrics.Value(EmploymentRate) != 72 || st.Metrics.Value(HappinessIndex) != 76 {
		t.Fatalf("school effect not applied")
	}
}

func TestSessionBuildValidation(t *testing.T) {
	s := startSession(t, Config{GridSize: 5}, newFakeStore())
	ctx := context.Background()
	if _, err := s.Build(ctx, 0, 0, School); !errors.Is(err, ErrDayNotStarted) {
		t.Fatalf("expected ErrDayNotStarted, got %v", err)
	}
	openDay(t, s)
	if _, err := s.Build(ctx, 5, 0, School); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := s.Build(ctx, 1, 1, Empty); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
	if _, err := s.Build(ctx, 1, 1, Hospital); err != nil {
		t.Fatalf("build hospital: %v", err)
	}
	money := s.State().Resources.Current(Money)
	if _, err := s.Build(ctx, 1, 1, School); !errors.Is(err, ErrOccupiedPlot) {
		t.Fatalf("expected ErrOccupiedPlot, got %v", err)
	}
	if s.State().Resources.Current(Money) != money {
		t.Fatalf("occupied plot charged the player")
	}
	if s.State().ZonesBuiltToday != 1 {
		t.Fatalf("built today=%d want 1", s.State().ZonesBuiltToday)
	}
}

func TestSessionCommercialBonus(t *testing.T) {
	s := startSession(t, Config{}, newFakeStore())
	openDay(t, s)
	r, err := s.Build(context.Background(), 2, 3, Commercial)
	if err != nil {
		t.Fatalf("build commercial: %v", err)
	}
	if r.Money != 10027.5 {
		t.Fatalf("money=%v want 10027.5", r.Money)
	}
	if r.Bonus != 477.5 {
		t.Fatalf("bonus=%v want 477.5", r.Bonus)
	}
}

func TestSessionDailyCap(t *testing.T) {
	s := startSession(t, Config{MaxZonesPerDay: 3}, newFakeStore())
	ctx := context.Background()
	openDay(t, s)
	for i := 0; i < 3; i++ {
		if _, err := s.Build(ctx, i, 0, School); err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
	}
	if _, err := s.Build(ctx, 3, 0, School); !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("expected ErrDailyLimit, got %v", err)
	}
	if _, err := s.EndDay(ctx); err != nil {
		t.Fatalf("end day: %v", err)
	}
	openDay(t, s)
	if _, err := s.Build(ctx, 3, 0, School); err != nil {
		t.Fatalf("cap should reset on a new day: %v", err)
	}
}

func TestSessionPhaseErrors(t *testing.T) {
	ctx := context.Background()
	s := NewSession(Config{Seed: 1}, newFakeStore(), discardLogger())
	if _, err := s.BeginDay(ctx); !errors.Is(err, ErrNoGame) {
		t.Fatalf("expected ErrNoGame, got %v", err)
	}
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.EndDay(ctx); !errors.Is(err, ErrDayNotStarted) {
		t.Fatalf("expected ErrDayNotStarted, got %v", err)
	}
	openDay(t, s)
	if _, err := s.BeginDay(ctx); !errors.Is(err, ErrDayInProgress) {
		t.Fatalf("expected ErrDayInProgress, got %v", err)
	}
}

func TestSessionLosesOnMonetaryGoal(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, Config{Days: 30, MonetaryGoal: 20000}, store)
	ctx := context.Background()

	for day := 1; day <= 30; day++ {
		openDay(t, s)
		out, err := s.EndDay(ctx)
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if out.Over != (day == 30) {
			t.Fatalf("day %d: over=%v", day, out.Over)
		}
	}
	st := s.State()
	if st.Day != 31 || !st.GameOver() {
		t.Fatalf("day=%d over=%v", st.Day, st.GameOver())
	}
	if st.Outcome.Won {
		t.Fatalf("expected a loss: %+v", st.Outcome)
	}
	if st.Resources.Current(Money) != 10000 {
		t.Fatalf("money=%v want 10000", st.Resources.Current(Money))
	}
	if len(store.persisted) != 30 {
		t.Fatalf("persisted %d times want 30", len(store.persisted))
	}
	if _, err := s.BeginDay(ctx); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if _, err := s.Build(ctx, 0, 0, School); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestSessionWins(t *testing.T) {
	s := startSession(t, Config{Days: 1, MonetaryGoal: 5000}, newFakeStore())
	openDay(t, s)
	out, err := s.EndDay(context.Background())
	if err != nil {
		t.Fatalf("end day: %v", err)
	}
	if !out.Over || !out.Won {
		t.Fatalf("expected a win: %+v", out)
	}
}

func TestSessionLosesOnMetricsAtGoal(t *testing.T) {
	s := startSession(t, Config{Days: 1, MonetaryGoal: 5000}, newFakeStore())
	openDay(t, s)
	s.State().Metrics.Set(CrimeRate, 31)
	out, err := s.EndDay(context.Background())
	if err != nil {
		t.Fatalf("end day: %v", err)
	}
	if out.Won || len(out.Breaches) != 1 || out.Breaches[0].Metric != CrimeRate {
		t.Fatalf("expected a crime loss: %+v", out)
	}
}

func TestSessionCriticalMetricsEndGameAtDawn(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, Config{MaxZonesPerDay: -1}, store)
	ctx := context.Background()
	openDay(t, s)
	for i := 0; i < 5; i++ {
		if _, err := s.Build(ctx, i, 0, Residential); err != nil {
			t.Fatalf("build %d: %v", i, err)
		}
	}
	if _, err := s.EndDay(ctx); err != nil {
		t.Fatalf("end day: %v", err)
	}
	r := openDay(t, s)
	if !r.Outcome.Over || r.Outcome.Won {
		t.Fatalf("expected a loss at dawn: %+v", r.Outcome)
	}
	if len(r.Outcome.Breaches) == 0 || r.Outcome.Breaches[0].Metric != EmploymentRate {
		t.Fatalf("breaches=%v", r.Outcome.Breaches)
	}
}

func TestSessionPersistenceFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	store.persistErr = errors.New("sheet unavailable")
	s := startSession(t, Config{}, store)
	openDay(t, s)
	if _, err := s.EndDay(context.Background()); err != nil {
		t.Fatalf("end day should not fail: %v", err)
	}
	err := s.LastPersistError()
	if !errors.Is(err, store.persistErr) {
		t.Fatalf("last persist error=%v", err)
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PersistenceError, got %T", err)
	}
	if s.State().Day != 2 {
		t.Fatalf("day=%d want 2", s.State().Day)
	}
	openDay(t, s)
}

func TestSessionRestart(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, Config{}, store)
	ctx := context.Background()
	openDay(t, s)
	if _, err := s.Build(ctx, 0, 0, Residential); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := s.EndDay(ctx); err != nil {
		t.Fatalf("end day: %v", err)
	}
	first := s.State().RunID

	res, err := s.Apply(ctx, Command{Kind: CommandRestart})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	st := s.State()
	if st.Day != 1 || st.Phase != PhasePlanning || res.Dawn == nil {
		t.Fatalf("day=%d phase=%v dawn=%v", st.Day, st.Phase, res.Dawn)
	}
	if st.RunID == first {
		t.Fatalf("restart reused run id")
	}
	if got := st.Resources.Current(Money); got != 10000 {
		t.Fatalf("money=%v want 10000", got)
	}
	if len(st.Grid.Counts()) != 0 {
		t.Fatalf("grid not reset: %v", st.Grid.Counts())
	}
	if store.resets != 2 {
		t.Fatalf("resets=%d want 2", store.resets)
	}
}

func TestSessionApply(t *testing.T) {
	s := startSession(t, Config{Days: 2, MonetaryGoal: 1}, newFakeStore())
	ctx := context.Background()
	openDay(t, s)

	res, err := s.Apply(ctx, Command{Kind: CommandBuild, X: 1, Y: 2, Zone: Industrial})
	if err != nil || res.Build == nil || res.Build.Zone != Industrial {
		t.Fatalf("build: %+v %v", res, err)
	}
	res, err = s.Apply(ctx, Command{Kind: CommandNext})
	if err != nil || res.Dawn == nil || res.Dawn.Day != 2 {
		t.Fatalf("next: %+v %v", res, err)
	}
	res, err = s.Apply(ctx, Command{Kind: CommandNext})
	if err != nil || res.Dawn != nil || !res.Outcome.Over || !res.Outcome.Won {
		t.Fatalf("final next: %+v %v", res, err)
	}
}

func TestSessionExit(t *testing.T) {
	store := newFakeStore()
	s := startSession(t, Config{}, store)
	openDay(t, s)
	res, err := s.Apply(context.Background(), Command{Kind: CommandExit})
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	if !res.Outcome.Over || res.Outcome.Won || !s.State().GameOver() {
		t.Fatalf("unexpected outcome %+v", res.Outcome)
	}
	if store.resets != 2 {
		t.Fatalf("resets=%d want 2", store.resets)
	}
}
