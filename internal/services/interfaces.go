package services

import (
	"io"
	"time"

	"budgetex/internal/budget"
	"budgetex/internal/config"
	"budgetex/internal/database"
	"budgetex/internal/models"
	"budgetex/internal/pagination"
	"budgetex/internal/period"
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

// BudgetStore is the persistence collaborator behind live data and snapshots.
type BudgetStore interface {
	SaveBudgetData(scenario string, income budget.Income, spending map[string]float64) error
	LoadBudgetData(scenario string) (*models.LiveBudget, bool, error)
	ClearSpending(scenario string) error
	SaveSnapshot(snapshot *models.Snapshot) error
	LoadAllSnapshots() (map[string]*models.Snapshot, error)
	DeleteSnapshot(periodID string) (bool, error)
	Stats() (*database.Stats, error)
}

// SnapshotServicer defines the contract for the in-memory snapshot store.
type SnapshotServicer interface {
	SaveSnapshot(snapshot *models.Snapshot) error
	GetSnapshot(periodID string) (*models.Snapshot, bool)
	AvailablePeriods() []period.Period
	ListPeriods(page pagination.PageRequest) pagination.PageResponse[period.Period]
	DeleteSnapshot(periodID string) (bool, error)
	SnapshotsInRange(start, end time.Time) []*models.Snapshot
	Recent(n int) []*models.Snapshot
	CurrentPeriod(kind period.Kind) period.Period
	CurrentMonthID() string
	GeneratePeriods(kind period.Kind, from time.Time, n int) []period.Period
	PreviousMonthOverages(scenario *budget.Scenario, current period.Period) map[string]float64
}

// Source names where a resolved period's figures came from.
type Source string

const (
	SourceSnapshot Source = "snapshot"
	SourceLive     Source = "live"
	SourceFresh    Source = "fresh"
	SourceBlank    Source = "blank"
)

// Resolution is the income and spending a period opens with.
type Resolution struct {
	Period    period.Period      `json:"period"`
	Source    Source             `json:"source"`
	IsCurrent bool               `json:"is_current"`
	Income    budget.Income      `json:"income"`
	ViewMode  budget.ViewMode    `json:"view_mode"`
	Spending  map[string]float64 `json:"spending"`
	// CarriedForward lists the overages seeded into a fresh current month.
	CarriedForward map[string]float64 `json:"carried_forward,omitempty"`
}

// ResolutionServicer decides which data a period opens with.
type ResolutionServicer interface {
	Resolve(scenario *budget.Scenario, periodID string) (*Resolution, error)
}

// CategorySummary aggregates one category across a window of snapshots.
type CategorySummary struct {
	Name            string  `json:"name"`
	TotalSpent      float64 `json:"total_spent"`
	TotalBudgeted   float64 `json:"total_budgeted"`
	AverageSpent    float64 `json:"average_spent"`
	AverageBudgeted float64 `json:"average_budgeted"`
}

// SpendingSummary aggregates the most recent snapshots.
type SpendingSummary struct {
	PeriodsAnalyzed          int               `json:"periods_analyzed"`
	PeriodIDs                []string          `json:"period_ids"`
	TotalBudgeted            float64           `json:"total_budgeted"`
	TotalSpent               float64           `json:"total_spent"`
	AverageBudgetedPerPeriod float64           `json:"average_budgeted_per_period"`
	AverageSpentPerPeriod    float64           `json:"average_spent_per_period"`
	SavingsRate              float64           `json:"overall_savings_rate"`
	Categories               []CategorySummary `json:"categories"`
}

// CategoryChange is one category's spending difference between two periods.
type CategoryChange struct {
	Name          string  `json:"name"`
	FromActual    float64 `json:"from_actual"`
	ToActual      float64 `json:"to_actual"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
}

// PeriodComparison compares actual spending between two snapshots.
type PeriodComparison struct {
	From               period.Period    `json:"from"`
	To                 period.Period    `json:"to"`
	TotalChange        float64          `json:"total_change"`
	TotalPercentChange float64          `json:"total_percent_change"`
	Categories         []CategoryChange `json:"categories"`
}

// CategoryTrend describes one category's spending over recent periods.
type CategoryTrend struct {
	Category        string  `json:"category"`
	PeriodsAnalyzed int     `json:"periods_analyzed"`
	Average         float64 `json:"average"`
	Variance        float64 `json:"variance"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	// Trend is the percent change from the first two periods to the last two.
	Trend float64 `json:"trend"`
}

// AnalyzerServicer computes read-only analytics over stored snapshots.
type AnalyzerServicer interface {
	SpendingSummary(n int) (*SpendingSummary, bool)
	ComparePeriods(fromID, toID string) (*PeriodComparison, bool)
	CategoryTrend(category string, n int) *CategoryTrend
}

// Calculation is a full evaluation of a scenario against income and spending.
type Calculation struct {
	Scenario   string                  `json:"scenario"`
	Income     budget.Income           `json:"income"`
	ViewMode   budget.ViewMode         `json:"view_mode"`
	Results    []budget.CategoryResult `json:"results"`
	Summary    budget.Summary          `json:"summary"`
	Advisories []string                `json:"advisories"`
}

// ScenarioServicer defines the contract for scenario lookup and evaluation.
type ScenarioServicer interface {
	List() []*budget.Scenario
	Get(name string) (*budget.Scenario, error)
	Calculate(name string, income budget.Income, view budget.ViewMode, spending map[string]float64) (*Calculation, error)
}

// SessionState is what the session currently shows.
type SessionState struct {
	Calculation
	Period         period.Period      `json:"period"`
	Source         Source             `json:"source"`
	IsCurrent      bool               `json:"is_current"`
	Spending       map[string]float64 `json:"spending"`
	CarriedForward map[string]float64 `json:"carried_forward,omitempty"`
	Dirty          bool               `json:"dirty"`
	AutoSave       bool               `json:"auto_save"`
}

// SessionServicer is the single controller that owns the viewed period.
type SessionServicer interface {
	State() (*SessionState, error)
	SwitchPeriod(periodID string) (*SessionState, error)
	SwitchScenario(name string) (*SessionState, error)
	SetIncome(income budget.Income) (*SessionState, error)
	SetViewMode(view budget.ViewMode) (*SessionState, error)
	SetSpending(category string, amount float64, description string) (*SessionState, error)
	ImportSpending(spending map[string]float64) (*SessionState, error)
	ClearSpending() (*SessionState, error)
	Save(notes string) (*models.Snapshot, error)
	ExportRows() ([][]string, error)
	CreatePeriod(p period.Period, income budget.Income) (*models.Snapshot, error)
	CreateHistoricalMonth(year int, month time.Month, income budget.Income) (*models.Snapshot, error)
	Flush() error
	Close() error
}

// HistoryFilter narrows a spending history listing.
type HistoryFilter struct {
	Scenario string
	Category string
	// Days limits entries to this many days back; zero means no limit.
	Days int
}

// HistoryServicer defines the contract for the spending history log.
type HistoryServicer interface {
	Record(scenario, category string, amount float64, description string) error
	List(filter HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.SpendingHistory], error)
}

// ImportResult is the outcome of reading spending from a CSV file.
type ImportResult struct {
	Spending map[string]float64 `json:"spending"`
	// Corrections maps names from the file to the category they were matched to.
	Corrections map[string]string `json:"corrections,omitempty"`
	Unmatched   []string          `json:"unmatched,omitempty"`
}

// ImportServicer parses spending files against a scenario's categories.
type ImportServicer interface {
	ParseSpending(scenario *budget.Scenario, r io.Reader) (*ImportResult, error)
}

// PreferencesServicer holds the loaded user preferences.
type PreferencesServicer interface {
	Get() config.Preferences
	Update(p config.Preferences) (config.Preferences, error)
}

// AuditFilter narrows an audit log listing.
type AuditFilter struct {
	Action       models.AuditAction
	ResourceType string
	ResourceID   string
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action models.AuditAction, resourceType, resourceID, ipAddress string, changes map[string]interface{})
	List(filter AuditFilter, page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}
