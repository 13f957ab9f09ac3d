package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"budgetex/internal/budget"
	"budgetex/internal/config"
	"budgetex/internal/database"
	"budgetex/internal/metrics"
	"budgetex/internal/period"
	"budgetex/internal/testutil"
)

// today pins "now" for every service test: the current month is July 2025.
var today = time.Date(2025, time.July, 15, 9, 30, 0, 0, time.UTC)

var (
	currentMonth  = period.Monthly(2025, time.July)
	previousMonth = period.Monthly(2025, time.June)
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// stubPrefs is an in-memory PreferencesServicer.
type stubPrefs struct {
	prefs config.Preferences
}

func (s *stubPrefs) Get() config.Preferences { return s.prefs }

func (s *stubPrefs) Update(p config.Preferences) (config.Preferences, error) {
	s.prefs = p
	return p, nil
}

// mockResolver is a ResolutionServicer with a swappable implementation.
type mockResolver struct {
	ResolveFn func(scenario *budget.Scenario, periodID string) (*Resolution, error)
}

func (m *mockResolver) Resolve(scenario *budget.Scenario, periodID string) (*Resolution, error) {
	return m.ResolveFn(scenario, periodID)
}

// testEnv wires the real services over an in-memory database.
type testEnv struct {
	db        *gorm.DB
	store     *database.Store
	scenario  *budget.Scenario
	prefs     *stubPrefs
	metrics   *metrics.Metrics
	snapshots SnapshotServicer
	resolver  ResolutionServicer
	history   HistoryServicer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	sc := testutil.TestScenario(t)
	prefs := config.DefaultPreferences()
	prefs.DefaultScenario = sc.Name()
	prefs.DefaultFirstPaycheck = 1500
	prefs.DefaultSecondPaycheck = 1500
	prefs.BufferCategory = ""

	env := &testEnv{
		db:       db,
		store:    database.NewStore(db),
		scenario: sc,
		prefs:    &stubPrefs{prefs: prefs},
		metrics:  metrics.New(),
	}
	env.reload()
	env.history = NewHistoryService(db, fixedClock(today))
	return env
}

// reload rebuilds the snapshot store from the database.
func (e *testEnv) reload() {
	e.snapshots = NewSnapshotService(e.store, fixedClock(today), e.metrics)
	e.resolver = NewResolutionService(e.snapshots, e.store, e.prefs, e.metrics)
}

func (e *testEnv) deps() SessionDeps {
	return SessionDeps{
		Scenarios: NewScenarioService(budget.NewCatalog(e.scenario), e.prefs),
		Snapshots: e.snapshots,
		Resolver:  e.resolver,
		Store:     e.store,
		History:   e.history,
		Prefs:     e.prefs,
		Metrics:   e.metrics,
		Clock:     fixedClock(today),
	}
}

func (e *testEnv) session(t *testing.T) SessionServicer {
	t.Helper()

	sess, err := NewSessionService(e.deps())
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

// waitFor polls cond until it holds or a second passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
