package model

import (
	"time"
)

// InvoiceLock represents the authoritative edit lock row for one invoice.
// The primary key enforces the "at most one lock row per invoice" invariant;
// staleness filtering happens in the domain, not the schema.
type InvoiceLock struct {
	InvoiceID      string    `gorm:"primaryKey;type:varchar(64);not null"`
	LockedByUserID string    `gorm:"type:varchar(64);not null;index"`
	LockedByEmail  string    `gorm:"type:varchar(255);not null"`
	LockedAt       time.Time `gorm:"not null;index"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for InvoiceLock
func (InvoiceLock) TableName() string {
	return "invoice_locks"
}
