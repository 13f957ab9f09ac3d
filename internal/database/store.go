package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"budgetex/internal/budget"
	apperrors "budgetex/internal/errors"
	"budgetex/internal/models"
)

// Store persists live budget data and period snapshots with GORM.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Stats summarizes what the database holds.
type Stats struct {
	Snapshots   int64      `json:"snapshots"`
	LiveBudgets int64      `json:"live_budgets"`
	History     int64      `json:"history_entries"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// SaveBudgetData writes the live income and spending for a scenario. Spending
// rows are upserted per category; categories not in spending keep their value.
func (s *Store) SaveBudgetData(scenario string, income budget.Income, spending map[string]float64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var live models.LiveBudget
		result := tx.Where("scenario_name = ?", scenario).First(&live)
		switch {
		case result.Error == nil:
			live.SetIncome(income)
			if err := tx.Model(&live).Updates(map[string]interface{}{
				"income_split":    live.IncomeSplit,
				"income":          live.Income,
				"first_paycheck":  live.FirstPaycheck,
				"second_paycheck": live.SecondPaycheck,
			}).Error; err != nil {
				return err
			}
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			live = models.LiveBudget{ScenarioName: scenario}
			live.SetIncome(income)
			if err := tx.Create(&live).Error; err != nil {
				return err
			}
		default:
			return result.Error
		}

		for category, actual := range spending {
			var row models.LiveSpending
			res := tx.Where("live_budget_id = ? AND category_name = ?", live.ID, category).First(&row)
			if res.Error == nil {
				if err := tx.Model(&row).Update("actual", actual).Error; err != nil {
					return err
				}
				continue
			}
			if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
				return res.Error
			}
			row = models.LiveSpending{LiveBudgetID: live.ID, CategoryName: category, Actual: actual}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	return nil
}

// LoadBudgetData returns the live budget for a scenario. The boolean is
// false when nothing has been saved for it yet.
func (s *Store) LoadBudgetData(scenario string) (*models.LiveBudget, bool, error) {
	var live models.LiveBudget
	err := s.db.Preload("Spending").Where("scenario_name = ?", scenario).First(&live).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	return &live, true, nil
}

// ClearSpending zeroes every live spending row for a scenario.
func (s *Store) ClearSpending(scenario string) error {
	sub := s.db.Model(&models.LiveBudget{}).Select("id").Where("scenario_name = ?", scenario)
	if err := s.db.Model(&models.LiveSpending{}).
		Where("live_budget_id IN (?)", sub).
		Update("actual", 0).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	return nil
}

// DeleteBudgetData removes the live budget for a scenario and its spending.
func (s *Store) DeleteBudgetData(scenario string) (bool, error) {
	var deleted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var live models.LiveBudget
		result := tx.Where("scenario_name = ?", scenario).First(&live)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		if result.Error != nil {
			return result.Error
		}
		if err := tx.Unscoped().Where("live_budget_id = ?", live.ID).Delete(&models.LiveSpending{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&live).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	return deleted, nil
}

// SaveSnapshot upserts a snapshot by period id, replacing its category lines.
func (s *Store) SaveSnapshot(snapshot *models.Snapshot) error {
	record := models.NewSnapshotRecord(snapshot)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.SnapshotRecord
		result := tx.Where("period_id = ?", record.PeriodID).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return tx.Create(record).Error
		}
		if result.Error != nil {
			return result.Error
		}

		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"period_kind":     record.PeriodKind,
			"start_date":      record.StartDate,
			"end_date":        record.EndDate,
			"display_name":    record.DisplayName,
			"scenario_name":   record.ScenarioName,
			"income_split":    record.IncomeSplit,
			"income":          record.Income,
			"first_paycheck":  record.FirstPaycheck,
			"second_paycheck": record.SecondPaycheck,
			"view_mode":       record.ViewMode,
			"total_budgeted":  record.TotalBudgeted,
			"total_spent":     record.TotalSpent,
			"notes":           record.Notes,
			"saved_at":        record.SavedAt,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("snapshot_id = ?", existing.ID).Delete(&models.SnapshotCategoryRecord{}).Error; err != nil {
			return err
		}
		for i := range record.Categories {
			record.Categories[i].SnapshotID = existing.ID
		}
		if len(record.Categories) > 0 {
			if err := tx.Create(&record.Categories).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	return nil
}

// LoadAllSnapshots returns every stored snapshot keyed by period id.
func (s *Store) LoadAllSnapshots() (map[string]*models.Snapshot, error) {
	var records []models.SnapshotRecord
	err := s.db.Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	snapshots := make(map[string]*models.Snapshot, len(records))
	for i := range records {
		snapshots[records[i].PeriodID] = records[i].Snapshot()
	}
	return snapshots, nil
}

// DeleteSnapshot removes a snapshot and its category lines. The boolean is
// false when no snapshot existed for the period.
func (s *Store) DeleteSnapshot(periodID string) (bool, error) {
	var deleted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.SnapshotRecord
		result := tx.Where("period_id = ?", periodID).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		if result.Error != nil {
			return result.Error
		}
		if err := tx.Where("snapshot_id = ?", existing.ID).Delete(&models.SnapshotCategoryRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	return deleted, nil
}

// Stats counts stored rows and reports the latest live update.
func (s *Store) Stats() (*Stats, error) {
	var stats Stats
	if err := s.db.Model(&models.SnapshotRecord{}).Count(&stats.Snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	if err := s.db.Model(&models.LiveBudget{}).Count(&stats.LiveBudgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	if err := s.db.Model(&models.SpendingHistory{}).Count(&stats.History).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}

	var latest models.LiveBudget
	result := s.db.Order("updated_at DESC").Limit(1).Find(&latest)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, result.Error)
	}
	if result.RowsAffected > 0 {
		t := latest.UpdatedAt
		stats.LastUpdated = &t
	}
	return &stats, nil
}
