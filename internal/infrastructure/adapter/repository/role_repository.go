package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/model"
)

// RoleRepository implements the takeover allow-list lookup using GORM
type RoleRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewRoleRepository creates a new RoleRepository instance
func NewRoleRepository(db *gorm.DB, logger coreport.Logger) *RoleRepository {
	return &RoleRepository{
		db:     db,
		logger: logger,
	}
}

// IsPrivileged reports whether the email maps to a role allowed to force-take
// locks. An unknown email is simply not privileged, never an error.
func (r *RoleRepository) IsPrivileged(ctx context.Context, email string) (bool, error) {
	var row model.UserRole
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Database error reading user role", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return row.Privileged(), nil
}
