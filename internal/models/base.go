// Package models holds the gorm records behind live budgets, history and
// the audit log.
package models

import (
	"time"

	"gorm.io/gorm"

	"budgetex/internal/uuid"
)

// Base is embedded by records keyed on a time-ordered text id. Rows are
// soft-deleted; the deletion stamp never leaves the process.
type Base struct {
	ID        string         `gorm:"size:36;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an id unless the caller already chose one.
func (b *Base) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
