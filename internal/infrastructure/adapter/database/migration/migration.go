package migration

import (
	"errors"

	"gorm.io/gorm"

	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/model"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.0.0"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// MigrateAll brings the schema to the current version
func (m *MigrationManager) MigrateAll() error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	currentVersion, err := m.currentVersion()
	if err != nil {
		return err
	}
	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	if err := m.db.AutoMigrate(
		&model.InvoiceLock{},
		&model.UserRole{},
		&model.AuditEvent{},
	); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	record := model.MigrationVersion{
		Version:   CurrentSchemaVersion,
		AppliedAt: m.timeProvider.Now(),
	}
	if err := m.db.Create(&record).Error; err != nil {
		m.logger.Error("Failed to record schema version", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("Database migrations completed", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// currentVersion returns the most recently applied schema version, or empty
// when the database is fresh
func (m *MigrationManager) currentVersion() (string, error) {
	var record model.MigrationVersion
	err := m.db.Order("applied_at DESC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{
			"error": err.Error(),
		})
		return "", err
	}
	return record.Version, nil
}
