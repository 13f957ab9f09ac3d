package models

// SpendingHistory is an append-only log of spending edits.
type SpendingHistory struct {
	Base
	ScenarioName string  `gorm:"not null;index" json:"scenario_name"`
	CategoryName string  `gorm:"not null" json:"category_name"`
	Amount       float64 `gorm:"not null" json:"amount"`
	Description  string  `json:"description,omitempty"`
}

// TableName overrides the default table name.
func (SpendingHistory) TableName() string { return "spending_history" }
