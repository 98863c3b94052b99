package model

import (
	"time"
)

// Roles that may force-take locks held by other users
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// UserRole is the allow-list row consulted before a forced takeover. Role
// administration belongs to the identity system; this service only reads.
type UserRole struct {
	Email     string    `gorm:"primaryKey;type:varchar(255);not null"`
	Role      string    `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for UserRole
func (UserRole) TableName() string {
	return "user_roles"
}

// Privileged reports whether the role permits forced takeover
func (r UserRole) Privileged() bool {
	return r.Role == RoleAdmin || r.Role == RoleManager
}
