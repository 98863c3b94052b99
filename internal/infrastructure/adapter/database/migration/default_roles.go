package migration

import (
	"errors"

	"gorm.io/gorm"

	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/model"
)

// Default takeover allow-list, seeded on first boot so a fresh environment
// has at least one privileged account. Production replaces these through the
// identity system.
var defaultRoles = map[string]string{
	"accounts@summitplumbing.com.au": model.RoleAdmin,
	"ops@summitplumbing.com.au":      model.RoleManager,
}

// SeedDefaultRoles inserts the default allow-list entries that don't already
// exist. Existing rows are never modified.
func SeedDefaultRoles(db *gorm.DB, logger coreport.Logger) error {
	for email, role := range defaultRoles {
		var existing model.UserRole
		err := db.Where("email = ?", email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := db.Create(&model.UserRole{Email: email, Role: role}).Error; err != nil {
			return err
		}
		logger.Info("Seeded default role", map[string]any{
			"email": email,
			"role":  role,
		})
	}
	return nil
}
