package usecase

import (
	"context"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
)

// LockUseCase is the contract the lock manager exposes to API consumers
type LockUseCase interface {
	// AcquireOrRefresh takes the edit lock when the invoice is free, stale, or
	// already held by the same user. A conflicting non-stale holder produces a
	// non-success result (never an error): the caller is warned, not blocked
	// from trying again later.
	AcquireOrRefresh(ctx context.Context, invoiceID string, user entity.Identity) (*entity.LockResult, error)

	// Release drops the lock if the user still holds it; a no-op otherwise.
	// Invoked on stop-editing, successful save, navigation away and
	// best-effort on window unload.
	Release(ctx context.Context, invoiceID string, user entity.Identity) error

	// ForceTake atomically reassigns a non-stale lock to a privileged user.
	// Requires a non-empty reason and records an audit event naming the
	// dispossessed holder.
	//
	// Possible errors:
	// - ErrTakeoverReasonRequired: if the reason is empty
	// - ErrInsufficientRole: if the user is not on the allow-list
	ForceTake(ctx context.Context, invoiceID string, user entity.Identity, reason string) (*entity.LockResult, error)

	// Get returns the current non-stale lock, or nil when the invoice is free
	Get(ctx context.Context, invoiceID string) (*entity.Lock, error)

	// VerifyOwnership is the save-time re-check: it fails when the lock is
	// absent, stale, or held by someone else, even if the caller's UI still
	// believes it holds the lock.
	//
	// Possible errors:
	// - ErrNotLockHolder: if ownership cannot be confirmed
	VerifyOwnership(ctx context.Context, invoiceID string, user entity.Identity) error

	// Watch streams the invoice's lock state to onChange, starting with an
	// immediate fetch of the current value. The returned stop function tears
	// the watch down on every exit path.
	Watch(ctx context.Context, invoiceID string, onChange func(*entity.Lock)) (func(), error)
}
