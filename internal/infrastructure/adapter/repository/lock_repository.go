package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/model"
)

// LockRepository implements the lock table operations using GORM. All the
// invariants the domain relies on (single winner under concurrent acquires,
// ownership-guarded release, atomic replace) are enforced in SQL here, so two
// service instances sharing the database coordinate correctly.
type LockRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLockRepository creates a new LockRepository instance
func NewLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *LockRepository {
	return &LockRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Upsert acquires or refreshes the lock in one atomic statement. The ON
// CONFLICT guard only lets the update through when the existing row belongs
// to the same user or has gone stale; zero affected rows means a non-stale
// lock is held by someone else.
func (r *LockRepository) Upsert(ctx context.Context, lock *entity.Lock, staleBefore time.Time) error {
	r.logger.Debug("Attempting lock upsert", map[string]any{
		"invoice_id": lock.InvoiceID,
		"user_id":    lock.LockedByUserID,
	})

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO invoice_locks (invoice_id, locked_by_user_id, locked_by_email, locked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (invoice_id) DO UPDATE
		SET locked_by_user_id = EXCLUDED.locked_by_user_id,
		    locked_by_email   = EXCLUDED.locked_by_email,
		    locked_at         = EXCLUDED.locked_at,
		    updated_at        = EXCLUDED.updated_at
		WHERE invoice_locks.locked_by_user_id = EXCLUDED.locked_by_user_id
		   OR invoice_locks.locked_at < ?`,
		lock.InvoiceID, lock.LockedByUserID, lock.LockedByEmail,
		lock.LockedAt, lock.CreatedAt, lock.UpdatedAt,
		staleBefore,
	)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			// Lost a race so tight the conflict guard never ran
			return errs.NewLockConflictError(lock.InvoiceID, lock.LockedByUserID, "", "")
		}
		r.logger.Error("Database error during lock upsert", map[string]any{
			"invoice_id": lock.InvoiceID,
			"error":      result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		// The conflict guard rejected the write: held by another, not stale
		return errs.NewLockConflictError(lock.InvoiceID, lock.LockedByUserID, "", "")
	}

	return nil
}

// Get returns the raw lock row for the invoice, without staleness filtering
func (r *LockRepository) Get(ctx context.Context, invoiceID string) (*entity.Lock, error) {
	var row model.InvoiceLock
	err := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Database error reading lock", map[string]any{
			"invoice_id": invoiceID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return toLockEntity(&row), nil
}

// DeleteOwned removes the lock only when held by the given user. The
// ownership check lives in the WHERE clause so a release racing a takeover
// can never delete the successor's row.
func (r *LockRepository) DeleteOwned(ctx context.Context, invoiceID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("invoice_id = ? AND locked_by_user_id = ?", invoiceID, userID).
		Delete(&model.InvoiceLock{})

	if result.Error != nil {
		if r.errorClassifier.IsContextError(result.Error) {
			// The row will be swept as stale eventually; not critical
			r.logger.Warn("Context timeout releasing lock, row will expire via staleness", map[string]any{
				"invoice_id": invoiceID,
				"user_id":    userID,
				"error":      result.Error.Error(),
			})
			return false, nil
		}
		r.logger.Error("Database error releasing lock", map[string]any{
			"invoice_id": invoiceID,
			"user_id":    userID,
			"error":      result.Error.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return result.RowsAffected > 0, nil
}

// Replace atomically swaps the current lock row for the new holder's row and
// returns the dispossessed lock, or nil when the invoice was free
func (r *LockRepository) Replace(ctx context.Context, lock *entity.Lock) (*entity.Lock, error) {
	var previous *entity.Lock

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.InvoiceLock
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("invoice_id = ?", lock.InvoiceID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Free invoice; takeover degenerates to a plain insert
		case err != nil:
			return err
		default:
			previous = toLockEntity(&existing)
			if err := tx.Where("invoice_id = ?", lock.InvoiceID).Delete(&model.InvoiceLock{}).Error; err != nil {
				return err
			}
		}

		return tx.Create(toLockModel(lock)).Error
	})

	if err != nil {
		r.logger.Error("Database error replacing lock", map[string]any{
			"invoice_id": lock.InvoiceID,
			"user_id":    lock.LockedByUserID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	return previous, nil
}

// DeleteStale removes every lock acquired strictly before the cutoff and
// returns the affected invoice IDs so delete events can be broadcast for
// them. A lock exactly at the cutoff still reads as live and is left alone.
func (r *LockRepository) DeleteStale(ctx context.Context, staleBefore time.Time) ([]string, error) {
	var invoiceIDs []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.InvoiceLock{}).
			Where("locked_at < ?", staleBefore).
			Pluck("invoice_id", &invoiceIDs).Error; err != nil {
			return err
		}
		if len(invoiceIDs) == 0 {
			return nil
		}
		return tx.Where("locked_at < ?", staleBefore).Delete(&model.InvoiceLock{}).Error
	})

	if err != nil {
		r.logger.Error("Database error sweeping stale locks", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	return invoiceIDs, nil
}

// toLockEntity converts a database row to the domain entity
func toLockEntity(row *model.InvoiceLock) *entity.Lock {
	return &entity.Lock{
		InvoiceID:      row.InvoiceID,
		LockedByUserID: row.LockedByUserID,
		LockedByEmail:  row.LockedByEmail,
		LockedAt:       row.LockedAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

// toLockModel converts a domain entity to a database row
func toLockModel(lock *entity.Lock) *model.InvoiceLock {
	return &model.InvoiceLock{
		InvoiceID:      lock.InvoiceID,
		LockedByUserID: lock.LockedByUserID,
		LockedByEmail:  lock.LockedByEmail,
		LockedAt:       lock.LockedAt,
		CreatedAt:      lock.CreatedAt,
		UpdatedAt:      lock.UpdatedAt,
	}
}
