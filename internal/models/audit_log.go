package models

// AuditAction names an operation recorded in the audit log.
type AuditAction string

const (
	AuditSaveSnapshot      AuditAction = "SAVE_SNAPSHOT"
	AuditDeleteSnapshot    AuditAction = "DELETE_SNAPSHOT"
	AuditCreatePeriod      AuditAction = "CREATE_PERIOD"
	AuditImportSpending    AuditAction = "IMPORT_SPENDING"
	AuditUpdatePreferences AuditAction = "UPDATE_PREFERENCES"
)

// AuditLog records operations that change stored budget history. Changes
// holds a JSON object of the fields that mattered to the operation.
type AuditLog struct {
	Base
	Action       AuditAction `gorm:"not null;index" json:"action"`
	ResourceType string      `gorm:"not null" json:"resource_type"`
	ResourceID   string      `gorm:"index" json:"resource_id"`
	IPAddress    string      `json:"ip_address"`
	Changes      string      `json:"changes,omitempty"`
}
