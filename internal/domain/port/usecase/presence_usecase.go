package usecase

import (
	"context"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
)

// PresenceUseCase is the contract the presence tracker exposes to API
// consumers. Presence is advisory: channel failures degrade the conflict UI
// but are never surfaced as user-facing errors and never gate a lock
// operation. Returned errors are validation failures only.
type PresenceUseCase interface {
	// Join registers the session and announces an idle entry on the shared
	// channel. Joining again with the same identity is a no-op; the
	// subscription lifecycle is keyed to user identity alone.
	Join(ctx context.Context, user entity.Identity) error

	// Update re-announces the user's entry with the given invoice and status.
	// Cheap to call often: unchanged announcements are skipped and bursts are
	// debounced.
	//
	// Possible errors:
	// - ErrInvalidPresenceStatus: if the status is not viewing, editing or idle
	Update(ctx context.Context, user entity.Identity, invoiceID string, status entity.PresenceStatus) error

	// Suspend announces idle with no invoice when the user's tab goes hidden
	// or unloads, remembering the prior claim
	Suspend(ctx context.Context, user entity.Identity)

	// Resume re-announces the claim that was current before Suspend
	Resume(ctx context.Context, user entity.Identity)

	// Leave withdraws the entry and drops the session state
	Leave(ctx context.Context, user entity.Identity)

	// UsersOnInvoice returns every other user's entry on the invoice, in no
	// guaranteed order
	UsersOnInvoice(invoiceID, excludeUserID string) []entity.PresenceEntry

	// IsInvoiceBeingEdited reports whether any other user is editing the invoice
	IsInvoiceBeingEdited(invoiceID, excludeUserID string) bool
}
