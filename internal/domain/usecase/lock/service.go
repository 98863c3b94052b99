package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/domain/port/persistence"
	"github.com/summitaiAU/invoice-lockd/internal/domain/port/realtime"
)

// Service is the authoritative lock manager. It owns every transition of the
// invoice_locks table and broadcasts each one on the realtime feed. The table
// is the single source of truth for "may I save"; the feed and the presence
// roster are advisory.
type Service struct {
	locks        persistence.LockRepository
	roles        persistence.RoleRepository
	audit        persistence.AuditSink
	feed         realtime.LockFeed
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       Config
}

// NewService creates a new lock manager
func NewService(
	locks persistence.LockRepository,
	roles persistence.RoleRepository,
	audit persistence.AuditSink,
	feed realtime.LockFeed,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	config Config,
) *Service {
	return &Service{
		locks:        locks,
		roles:        roles,
		audit:        audit,
		feed:         feed,
		timeProvider: timeProvider,
		logger:       logger,
		config:       config,
	}
}

// staleBefore returns the cutoff instant: locks acquired at or before it read
// as absent
func (s *Service) staleBefore() time.Time {
	return s.timeProvider.Now().Add(-s.config.StaleThreshold)
}

// AcquireOrRefresh takes or refreshes the edit lock for the user. Acquiring
// over a stale lock is an ordinary acquire: the original holder is presumed
// gone, so no reason and no audit event are involved.
func (s *Service) AcquireOrRefresh(ctx context.Context, invoiceID string, user entity.Identity) (*entity.LockResult, error) {
	claim, err := entity.NewLock(invoiceID, user, s.timeProvider)
	if err != nil {
		return nil, err
	}

	existing, err := s.locks.Get(ctx, invoiceID)
	if err != nil {
		s.logger.Error("Failed to read lock before acquire", map[string]any{
			"invoice_id": invoiceID,
			"user_id":    user.UserID,
			"error":      err.Error(),
		})
		return nil, err
	}

	now := s.timeProvider.Now()
	if existing != nil && !existing.IsStale(s.config.StaleThreshold, now) && !existing.HeldBy(user.UserID) {
		s.logger.Info("Lock acquisition conflict", map[string]any{
			"invoice_id":   invoiceID,
			"requested_by": user.UserID,
			"holder_id":    existing.LockedByUserID,
			"holder_email": existing.LockedByEmail,
		})
		return entity.ConflictResult(existing), nil
	}

	// The upsert re-applies the same guards atomically, so a racing acquire
	// between the read above and this write still yields exactly one winner.
	if err := s.locks.Upsert(ctx, claim, s.staleBefore()); err != nil {
		if errs.IsLockConflictError(err) {
			holder, getErr := s.locks.Get(ctx, invoiceID)
			if getErr != nil {
				s.logger.Error("Failed to read holder after lost acquire race", map[string]any{
					"invoice_id": invoiceID,
					"error":      getErr.Error(),
				})
				return nil, getErr
			}
			s.logger.Info("Lost lock acquire race", map[string]any{
				"invoice_id":   invoiceID,
				"requested_by": user.UserID,
			})
			return entity.ConflictResult(holder), nil
		}
		s.logger.Error("Failed to acquire lock", map[string]any{
			"invoice_id": invoiceID,
			"user_id":    user.UserID,
			"error":      err.Error(),
		})
		return nil, err
	}

	action := entity.LockInserted
	if existing != nil && existing.HeldBy(user.UserID) {
		action = entity.LockUpdated
	}
	s.publish(ctx, action, invoiceID, claim)

	s.logger.Info("Lock acquired", map[string]any{
		"invoice_id": invoiceID,
		"user_id":    user.UserID,
		"user_email": user.Email,
		"refreshed":  action == entity.LockUpdated,
	})
	return entity.AcquiredResult(claim), nil
}

// Release drops the lock if the user still holds it. Releasing a lock held
// by someone else is a deliberate no-op so a slow release can never delete a
// successor's lock after a takeover.
func (s *Service) Release(ctx context.Context, invoiceID string, user entity.Identity) error {
	if invoiceID == "" {
		return errs.ErrInvalidInvoiceID
	}
	if err := user.Validate(); err != nil {
		return err
	}

	deleted, err := s.locks.DeleteOwned(ctx, invoiceID, user.UserID)
	if err != nil {
		s.logger.Error("Failed to release lock", map[string]any{
			"invoice_id": invoiceID,
			"user_id":    user.UserID,
			"error":      err.Error(),
		})
		return err
	}

	if !deleted {
		s.logger.Debug("Release was a no-op, lock not held by user", map[string]any{
			"invoice_id": invoiceID,
			"user_id":    user.UserID,
		})
		return nil
	}

	s.publish(ctx, entity.LockDeleted, invoiceID, nil)
	s.logger.Info("Lock released", map[string]any{
		"invoice_id": invoiceID,
		"user_id":    user.UserID,
	})
	return nil
}

// ForceTake atomically reassigns a non-stale lock to a privileged user and
// records the takeover in the audit sink. Validation failures reject the
// request before any mutation.
func (s *Service) ForceTake(ctx context.Context, invoiceID string, user entity.Identity, reason string) (*entity.LockResult, error) {
	if invoiceID == "" {
		return nil, errs.ErrInvalidInvoiceID
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, errs.ErrTakeoverReasonRequired
	}

	privileged, err := s.roles.IsPrivileged(ctx, user.Email)
	if err != nil {
		s.logger.Error("Failed to check role for takeover", map[string]any{
			"invoice_id": invoiceID,
			"user_email": user.Email,
			"error":      err.Error(),
		})
		return nil, errs.NewTakeoverError(invoiceID, user.UserID, reason, err)
	}
	if !privileged {
		s.logger.Warn("Takeover rejected for non-privileged user", map[string]any{
			"invoice_id": invoiceID,
			"user_id":    user.UserID,
			"user_email": user.Email,
		})
		return nil, errs.ErrInsufficientRole
	}

	claim, err := entity.NewLock(invoiceID, user, s.timeProvider)
	if err != nil {
		return nil, err
	}

	dispossessed, err := s.locks.Replace(ctx, claim)
	if err != nil {
		s.logger.Error("Failed to replace lock during takeover", map[string]any{
			"invoice_id": invoiceID,
			"user_id":    user.UserID,
			"error":      err.Error(),
		})
		return nil, errs.NewTakeoverError(invoiceID, user.UserID, reason, err)
	}

	event, err := entity.NewTakeoverAuditEvent(invoiceID, user, dispossessed, reason, s.timeProvider)
	if err != nil {
		// Reason was validated above, so this only fires on a programming error
		return nil, err
	}
	if err := s.audit.Record(ctx, event); err != nil {
		// The lock has already changed hands; losing the audit trail is an
		// operational incident, not a reason to pretend the takeover failed.
		s.logger.Error("Failed to record takeover audit event", map[string]any{
			"invoice_id": invoiceID,
			"event_id":   event.ID,
			"error":      err.Error(),
		})
	}

	s.publish(ctx, entity.LockUpdated, invoiceID, claim)

	fields := map[string]any{
		"invoice_id": invoiceID,
		"actor_id":   user.UserID,
		"reason":     reason,
	}
	if dispossessed != nil {
		fields["dispossessed_id"] = dispossessed.LockedByUserID
		fields["dispossessed_email"] = dispossessed.LockedByEmail
	}
	s.logger.Info("Lock forcibly taken over", fields)

	return entity.AcquiredResult(claim), nil
}

// Get returns the current lock with the staleness filter applied: a stale
// row reads as absent
func (s *Service) Get(ctx context.Context, invoiceID string) (*entity.Lock, error) {
	if invoiceID == "" {
		return nil, errs.ErrInvalidInvoiceID
	}

	row, err := s.locks.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if row.IsStale(s.config.StaleThreshold, s.timeProvider.Now()) {
		s.logger.Debug("Ignoring stale lock", map[string]any{
			"invoice_id": invoiceID,
			"holder_id":  row.LockedByUserID,
			"locked_at":  row.LockedAt,
		})
		return nil, nil
	}
	return row, nil
}

// VerifyOwnership re-checks lock ownership at save time. Edit-start checks
// are not enough: time has passed, the lock may have gone stale, and a
// takeover may have happened. This is the anti-clobber guarantee.
func (s *Service) VerifyOwnership(ctx context.Context, invoiceID string, user entity.Identity) error {
	if err := user.Validate(); err != nil {
		return err
	}

	current, err := s.Get(ctx, invoiceID)
	if err != nil {
		return err
	}
	if current == nil || !current.HeldBy(user.UserID) {
		fields := map[string]any{
			"invoice_id": invoiceID,
			"user_id":    user.UserID,
		}
		if current != nil {
			fields["holder_id"] = current.LockedByUserID
		}
		s.logger.Warn("Save-time ownership check failed", fields)
		return fmt.Errorf("%w: invoice %s", errs.ErrNotLockHolder, invoiceID)
	}
	return nil
}

// publish broadcasts a lock change on the feed. Feed failures are logged and
// swallowed: the feed is a liveness aid and consumers poll as a fallback.
func (s *Service) publish(ctx context.Context, action entity.LockAction, invoiceID string, lock *entity.Lock) {
	event := entity.LockEvent{
		Action:    action,
		InvoiceID: invoiceID,
		Lock:      lock,
		EmittedAt: s.timeProvider.Now(),
	}
	if err := s.feed.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish lock event", map[string]any{
			"invoice_id": invoiceID,
			"action":     string(action),
			"error":      err.Error(),
		})
	}
}
