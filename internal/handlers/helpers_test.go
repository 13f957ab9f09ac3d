package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgetex/internal/budget"
	"budgetex/internal/config"
	"budgetex/internal/database"
	"budgetex/internal/models"
	"budgetex/internal/pagination"
	"budgetex/internal/period"
	"budgetex/internal/services"
	"budgetex/internal/validator"
)

// --- mock services ---

type auditEntry struct {
	action     models.AuditAction
	resourceID string
}

type mockAuditService struct {
	entries []auditEntry
	listFn  func(filter services.AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

func (m *mockAuditService) Log(action models.AuditAction, _, resourceID, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{action: action, resourceID: resourceID})
}

func (m *mockAuditService) List(filter services.AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	if m.listFn != nil {
		return m.listFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.AuditLog{}, 1, 20, 0)
	return &resp, nil
}

var _ services.AuditServicer = (*mockAuditService)(nil)

type mockScenarioService struct {
	listFn      func() []*budget.Scenario
	getFn       func(name string) (*budget.Scenario, error)
	calculateFn func(name string, income budget.Income, view budget.ViewMode, spending map[string]float64) (*services.Calculation, error)
}

func (m *mockScenarioService) List() []*budget.Scenario {
	if m.listFn != nil {
		return m.listFn()
	}
	return nil
}

func (m *mockScenarioService) Get(name string) (*budget.Scenario, error) {
	if m.getFn != nil {
		return m.getFn(name)
	}
	return testScenario, nil
}

func (m *mockScenarioService) Calculate(name string, income budget.Income, view budget.ViewMode, spending map[string]float64) (*services.Calculation, error) {
	if m.calculateFn != nil {
		return m.calculateFn(name, income, view, spending)
	}
	return &services.Calculation{Scenario: name, Income: income, ViewMode: view, Advisories: []string{}}, nil
}

var _ services.ScenarioServicer = (*mockScenarioService)(nil)

type mockSnapshotService struct {
	getSnapshotFn      func(periodID string) (*models.Snapshot, bool)
	listPeriodsFn      func(page pagination.PageRequest) pagination.PageResponse[period.Period]
	deleteSnapshotFn   func(periodID string) (bool, error)
	snapshotsInRangeFn func(start, end time.Time) []*models.Snapshot
}

func (m *mockSnapshotService) SaveSnapshot(*models.Snapshot) error { return nil }

func (m *mockSnapshotService) GetSnapshot(periodID string) (*models.Snapshot, bool) {
	if m.getSnapshotFn != nil {
		return m.getSnapshotFn(periodID)
	}
	return nil, false
}

func (m *mockSnapshotService) AvailablePeriods() []period.Period { return nil }

func (m *mockSnapshotService) ListPeriods(page pagination.PageRequest) pagination.PageResponse[period.Period] {
	if m.listPeriodsFn != nil {
		return m.listPeriodsFn(page)
	}
	return pagination.PaginateSlice([]period.Period{}, page)
}

func (m *mockSnapshotService) DeleteSnapshot(periodID string) (bool, error) {
	if m.deleteSnapshotFn != nil {
		return m.deleteSnapshotFn(periodID)
	}
	return true, nil
}

func (m *mockSnapshotService) SnapshotsInRange(start, end time.Time) []*models.Snapshot {
	if m.snapshotsInRangeFn != nil {
		return m.snapshotsInRangeFn(start, end)
	}
	return nil
}

func (m *mockSnapshotService) Recent(int) []*models.Snapshot { return nil }

func (m *mockSnapshotService) CurrentPeriod(kind period.Kind) period.Period {
	return period.Current(kind, handlerToday)
}

func (m *mockSnapshotService) CurrentMonthID() string {
	return period.Current(period.KindMonthly, handlerToday).ID
}

func (m *mockSnapshotService) GeneratePeriods(kind period.Kind, from time.Time, n int) []period.Period {
	return period.Generate(kind, from, n)
}

func (m *mockSnapshotService) PreviousMonthOverages(*budget.Scenario, period.Period) map[string]float64 {
	return map[string]float64{}
}

var _ services.SnapshotServicer = (*mockSnapshotService)(nil)

type mockSessionService struct {
	stateFn                 func() (*services.SessionState, error)
	switchPeriodFn          func(periodID string) (*services.SessionState, error)
	switchScenarioFn        func(name string) (*services.SessionState, error)
	setIncomeFn             func(income budget.Income) (*services.SessionState, error)
	setViewModeFn           func(view budget.ViewMode) (*services.SessionState, error)
	setSpendingFn           func(category string, amount float64, description string) (*services.SessionState, error)
	importSpendingFn        func(spending map[string]float64) (*services.SessionState, error)
	clearSpendingFn         func() (*services.SessionState, error)
	saveFn                  func(notes string) (*models.Snapshot, error)
	exportRowsFn            func() ([][]string, error)
	createPeriodFn          func(p period.Period, income budget.Income) (*models.Snapshot, error)
	createHistoricalMonthFn func(year int, month time.Month, income budget.Income) (*models.Snapshot, error)
}

func testState() *services.SessionState {
	return &services.SessionState{
		Calculation: services.Calculation{Scenario: testScenario.Name(), ViewMode: budget.ViewMonthly, Advisories: []string{}},
		Period:      period.Monthly(2025, time.July),
		Source:      services.SourceLive,
		IsCurrent:   true,
		Spending:    map[string]float64{},
	}
}

func (m *mockSessionService) State() (*services.SessionState, error) {
	if m.stateFn != nil {
		return m.stateFn()
	}
	return testState(), nil
}

func (m *mockSessionService) SwitchPeriod(periodID string) (*services.SessionState, error) {
	if m.switchPeriodFn != nil {
		return m.switchPeriodFn(periodID)
	}
	return testState(), nil
}

func (m *mockSessionService) SwitchScenario(name string) (*services.SessionState, error) {
	if m.switchScenarioFn != nil {
		return m.switchScenarioFn(name)
	}
	return testState(), nil
}

func (m *mockSessionService) SetIncome(income budget.Income) (*services.SessionState, error) {
	if m.setIncomeFn != nil {
		return m.setIncomeFn(income)
	}
	return testState(), nil
}

func (m *mockSessionService) SetViewMode(view budget.ViewMode) (*services.SessionState, error) {
	if m.setViewModeFn != nil {
		return m.setViewModeFn(view)
	}
	return testState(), nil
}

func (m *mockSessionService) SetSpending(category string, amount float64, description string) (*services.SessionState, error) {
	if m.setSpendingFn != nil {
		return m.setSpendingFn(category, amount, description)
	}
	return testState(), nil
}

func (m *mockSessionService) ImportSpending(spending map[string]float64) (*services.SessionState, error) {
	if m.importSpendingFn != nil {
		return m.importSpendingFn(spending)
	}
	return testState(), nil
}

func (m *mockSessionService) ClearSpending() (*services.SessionState, error) {
	if m.clearSpendingFn != nil {
		return m.clearSpendingFn()
	}
	return testState(), nil
}

func (m *mockSessionService) Save(notes string) (*models.Snapshot, error) {
	if m.saveFn != nil {
		return m.saveFn(notes)
	}
	return &models.Snapshot{Period: period.Monthly(2025, time.July), Notes: notes}, nil
}

func (m *mockSessionService) ExportRows() ([][]string, error) {
	if m.exportRowsFn != nil {
		return m.exportRowsFn()
	}
	return [][]string{budget.ExportHeader}, nil
}

func (m *mockSessionService) CreatePeriod(p period.Period, income budget.Income) (*models.Snapshot, error) {
	if m.createPeriodFn != nil {
		return m.createPeriodFn(p, income)
	}
	return &models.Snapshot{Period: p, Income: income}, nil
}

func (m *mockSessionService) CreateHistoricalMonth(year int, month time.Month, income budget.Income) (*models.Snapshot, error) {
	if m.createHistoricalMonthFn != nil {
		return m.createHistoricalMonthFn(year, month, income)
	}
	return &models.Snapshot{Period: period.Monthly(year, month), Income: income}, nil
}

func (m *mockSessionService) Flush() error { return nil }

func (m *mockSessionService) Close() error { return nil }

var _ services.SessionServicer = (*mockSessionService)(nil)

type mockImportService struct {
	parseSpendingFn func(scenario *budget.Scenario, r io.Reader) (*services.ImportResult, error)
}

func (m *mockImportService) ParseSpending(scenario *budget.Scenario, r io.Reader) (*services.ImportResult, error) {
	if m.parseSpendingFn != nil {
		return m.parseSpendingFn(scenario, r)
	}
	return &services.ImportResult{Spending: map[string]float64{}}, nil
}

var _ services.ImportServicer = (*mockImportService)(nil)

type mockAnalyzerService struct {
	spendingSummaryFn func(n int) (*services.SpendingSummary, bool)
	comparePeriodsFn  func(fromID, toID string) (*services.PeriodComparison, bool)
	categoryTrendFn   func(category string, n int) *services.CategoryTrend
}

func (m *mockAnalyzerService) SpendingSummary(n int) (*services.SpendingSummary, bool) {
	if m.spendingSummaryFn != nil {
		return m.spendingSummaryFn(n)
	}
	return nil, false
}

func (m *mockAnalyzerService) ComparePeriods(fromID, toID string) (*services.PeriodComparison, bool) {
	if m.comparePeriodsFn != nil {
		return m.comparePeriodsFn(fromID, toID)
	}
	return nil, false
}

func (m *mockAnalyzerService) CategoryTrend(category string, n int) *services.CategoryTrend {
	if m.categoryTrendFn != nil {
		return m.categoryTrendFn(category, n)
	}
	return &services.CategoryTrend{Category: category}
}

var _ services.AnalyzerServicer = (*mockAnalyzerService)(nil)

type mockHistoryService struct {
	listFn func(filter services.HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.SpendingHistory], error)
}

func (m *mockHistoryService) Record(string, string, float64, string) error { return nil }

func (m *mockHistoryService) List(filter services.HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.SpendingHistory], error) {
	if m.listFn != nil {
		return m.listFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.SpendingHistory{}, 1, 20, 0)
	return &resp, nil
}

var _ services.HistoryServicer = (*mockHistoryService)(nil)

type mockPrefsService struct {
	prefs    config.Preferences
	updateFn func(p config.Preferences) (config.Preferences, error)
}

func (m *mockPrefsService) Get() config.Preferences { return m.prefs }

func (m *mockPrefsService) Update(p config.Preferences) (config.Preferences, error) {
	if m.updateFn != nil {
		return m.updateFn(p)
	}
	m.prefs = p
	return p, nil
}

var _ services.PreferencesServicer = (*mockPrefsService)(nil)

type mockStatsProvider struct {
	statsFn func() (*database.Stats, error)
}

func (m *mockStatsProvider) Stats() (*database.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn()
	}
	return &database.Stats{}, nil
}

// --- test helpers ---

// handlerToday pins "now" for handler tests to July 2025.
var handlerToday = time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)

var testScenario = budget.MustScenario("Test",
	budget.Category{Name: "Rent", MonthlyAmount: 1000, Kind: budget.FixedDollar, Group: budget.GroupExpense},
	budget.Category{Name: "Groceries", Percentage: 10, Kind: budget.FixedPercentage, Group: budget.GroupExpense},
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
