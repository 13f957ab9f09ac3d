package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "budgetex/internal/errors"
	"budgetex/internal/models"
	"budgetex/internal/pagination"
)

// historyService handles the spending history log.
type historyService struct {
	db    *gorm.DB
	clock Clock
}

// NewHistoryService creates a new HistoryServicer.
func NewHistoryService(db *gorm.DB, clock Clock) HistoryServicer {
	return &historyService{db: db, clock: clock}
}

// Record appends one spending edit to the log.
func (s *historyService) Record(scenario, category string, amount float64, description string) error {
	entry := &models.SpendingHistory{
		ScenarioName: scenario,
		CategoryName: category,
		Amount:       amount,
		Description:  description,
	}
	if err := s.db.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceFailed, err)
	}
	return nil
}

// List returns history entries matching filter, newest first.
func (s *historyService) List(filter HistoryFilter, page pagination.PageRequest) (*pagination.PageResponse[models.SpendingHistory], error) {
	page.Defaults()

	base := s.db.Model(&models.SpendingHistory{})
	if filter.Scenario != "" {
		base = base.Where("scenario_name = ?", filter.Scenario)
	}
	if filter.Category != "" {
		base = base.Where("category_name = ?", filter.Category)
	}
	if filter.Days > 0 {
		cutoff := s.clock().Add(-time.Duration(filter.Days) * 24 * time.Hour)
		base = base.Where("created_at >= ?", cutoff)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.SpendingHistory
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &resp, nil
}
