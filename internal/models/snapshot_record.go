package models

import (
	"time"

	"budgetex/internal/budget"
	"budgetex/internal/period"
	"budgetex/internal/uuid"

	"gorm.io/gorm"
)

// SnapshotRecord is the stored row for a Snapshot. The period is frozen into
// columns so a stored id never depends on regenerating a period sequence.
// No Base embed: rows are upserted by period id and deleted outright.
type SnapshotRecord struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	PeriodID       string    `gorm:"uniqueIndex;not null" json:"period_id"`
	PeriodKind     string    `gorm:"not null" json:"period_kind"`
	StartDate      time.Time `gorm:"not null;index" json:"start_date"`
	EndDate        time.Time `gorm:"not null" json:"end_date"`
	DisplayName    string    `gorm:"not null" json:"display_name"`
	ScenarioName   string    `gorm:"not null" json:"scenario_name"`
	IncomeSplit    bool      `gorm:"not null;default:false" json:"income_split"`
	Income         float64   `gorm:"not null" json:"income"`
	FirstPaycheck  float64   `gorm:"not null" json:"first_paycheck"`
	SecondPaycheck float64   `gorm:"not null" json:"second_paycheck"`
	ViewMode       string    `gorm:"not null" json:"view_mode"`
	TotalBudgeted  float64   `gorm:"not null" json:"total_budgeted"`
	TotalSpent     float64   `gorm:"not null" json:"total_spent"`
	Notes          string    `json:"notes"`
	SavedAt        time.Time `gorm:"not null" json:"saved_at"`

	Categories []SnapshotCategoryRecord `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE" json:"categories"`
}

// TableName overrides the default table name.
func (SnapshotRecord) TableName() string { return "snapshots" }

// BeforeCreate hook generates a UUIDv7 for new records
func (r *SnapshotRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New()
	}
	return nil
}

// SnapshotCategoryRecord stores one category line of a snapshot.
type SnapshotCategoryRecord struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	SnapshotID   string  `gorm:"type:uuid;not null;index" json:"snapshot_id"`
	Position     int     `gorm:"not null" json:"position"`
	CategoryName string  `gorm:"not null" json:"category_name"`
	Budgeted     float64 `gorm:"not null" json:"budgeted"`
	Actual       float64 `gorm:"not null" json:"actual"`
	Notes        string  `json:"notes"`
}

// TableName overrides the default table name.
func (SnapshotCategoryRecord) TableName() string { return "snapshot_categories" }

// BeforeCreate hook generates a UUIDv7 for new records
func (r *SnapshotCategoryRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New()
	}
	return nil
}

// NewSnapshotRecord flattens a Snapshot into its stored form.
func NewSnapshotRecord(s *Snapshot) *SnapshotRecord {
	r := &SnapshotRecord{
		PeriodID:       s.Period.ID,
		PeriodKind:     string(s.Period.Kind),
		StartDate:      s.Period.Start,
		EndDate:        s.Period.End,
		DisplayName:    s.Period.DisplayName,
		ScenarioName:   s.ScenarioName,
		IncomeSplit:    s.Income.IsSplit(),
		Income:         s.Income.Monthly(),
		FirstPaycheck:  s.Income.First(),
		SecondPaycheck: s.Income.Second(),
		ViewMode:       string(s.ViewMode),
		TotalBudgeted:  s.TotalBudgeted,
		TotalSpent:     s.TotalSpent,
		Notes:          s.Notes,
		SavedAt:        s.SavedAt,
		Categories:     make([]SnapshotCategoryRecord, 0, len(s.Categories)),
	}
	for i, e := range s.Categories {
		r.Categories = append(r.Categories, SnapshotCategoryRecord{
			Position:     i,
			CategoryName: e.Name,
			Budgeted:     e.Budgeted,
			Actual:       e.Actual,
			Notes:        e.Notes,
		})
	}
	return r
}

// Snapshot rebuilds the domain value. Categories are expected in Position order.
func (r *SnapshotRecord) Snapshot() *Snapshot {
	income := budget.MonthlyIncome(r.Income)
	if r.IncomeSplit {
		income = budget.SplitPaycheck(r.FirstPaycheck, r.SecondPaycheck)
	}

	s := &Snapshot{
		Period: period.Period{
			ID:          r.PeriodID,
			Kind:        period.Kind(r.PeriodKind),
			Start:       period.Truncate(r.StartDate.UTC()),
			End:         period.Truncate(r.EndDate.UTC()),
			DisplayName: r.DisplayName,
		},
		ScenarioName:  r.ScenarioName,
		Income:        income,
		ViewMode:      budget.ViewMode(r.ViewMode),
		Categories:    make([]CategoryEntry, 0, len(r.Categories)),
		TotalBudgeted: r.TotalBudgeted,
		TotalSpent:    r.TotalSpent,
		SavedAt:       r.SavedAt,
		Notes:         r.Notes,
	}
	for _, c := range r.Categories {
		s.Categories = append(s.Categories, CategoryEntry{
			Name:     c.CategoryName,
			Budgeted: c.Budgeted,
			Actual:   c.Actual,
			Notes:    c.Notes,
		})
	}
	return s
}
