package persistence

import (
	"context"
	"time"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
)

// LockRepository defines storage operations on the authoritative lock table.
// The store is the single source of truth for "may I save": at most one
// non-stale lock per invoice, ownership-checked release, and atomic takeover
// are all enforced here, not in caller memory.
type LockRepository interface {
	// Upsert acquires or refreshes the lock in a single atomic statement.
	// The write only lands when the invoice is free, the existing row is
	// stale (locked_at strictly before staleBefore), or the row already
	// belongs to the same user.
	//
	// Possible errors:
	// - ErrLockConflict: if a non-stale lock is held by a different user
	// - ErrDatabaseConnection: if the store cannot be reached
	Upsert(ctx context.Context, lock *entity.Lock, staleBefore time.Time) error

	// Get returns the raw lock row for the invoice, or nil when none exists.
	// Staleness filtering is the caller's concern; the row is returned as-is.
	//
	// Possible errors:
	// - ErrDatabaseConnection: if the store cannot be reached
	Get(ctx context.Context, invoiceID string) (*entity.Lock, error)

	// DeleteOwned removes the lock only when it is held by the given user and
	// reports whether a row was actually deleted. A release racing a takeover
	// must never delete the successor's lock.
	//
	// Possible errors:
	// - ErrDatabaseConnection: if the store cannot be reached
	DeleteOwned(ctx context.Context, invoiceID, userID string) (bool, error)

	// Replace atomically swaps the current lock row for the new holder's row
	// and returns the dispossessed lock, or nil when the invoice was free.
	//
	// Possible errors:
	// - ErrDatabaseConnection: if the store cannot be reached
	Replace(ctx context.Context, lock *entity.Lock) (*entity.Lock, error)

	// DeleteStale removes every lock with locked_at strictly before the given
	// cutoff and returns the affected invoice IDs so delete events can be
	// broadcast for them. A row exactly at the cutoff still reads as live and
	// must survive the sweep.
	//
	// Possible errors:
	// - ErrDatabaseConnection: if the store cannot be reached
	DeleteStale(ctx context.Context, staleBefore time.Time) ([]string, error)
}
