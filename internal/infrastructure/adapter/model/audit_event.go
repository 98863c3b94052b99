package model

import (
	"time"
)

// AuditEvent is an append-only record of a privileged action. Rows are only
// ever inserted; there is no update or delete path through this model.
type AuditEvent struct {
	ID                  string    `gorm:"primaryKey;type:uuid"`
	EventType           string    `gorm:"type:varchar(64);not null;index"`
	InvoiceID           string    `gorm:"type:varchar(64);not null;index"`
	ActorUserID         string    `gorm:"type:varchar(64);not null"`
	ActorEmail          string    `gorm:"type:varchar(255);not null"`
	PreviousHolderID    string    `gorm:"type:varchar(64)"`
	PreviousHolderEmail string    `gorm:"type:varchar(255)"`
	Reason              string    `gorm:"type:text;not null"`
	OccurredAt          time.Time `gorm:"not null;index"`
	CreatedAt           time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for AuditEvent
func (AuditEvent) TableName() string {
	return "audit_events"
}
