package realtime

import (
	"context"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
)

// LockFeed is the publish/subscribe change feed for lock rows. It is a
// liveness mechanism only: delivery is best-effort and possibly out of order,
// and subscribers pair it with direct fetches for correctness.
type LockFeed interface {
	// Publish broadcasts a lock change to every subscriber of the invoice.
	//
	// Possible errors:
	// - ErrChannelUnavailable: if the channel backend cannot be reached
	Publish(ctx context.Context, event entity.LockEvent) error

	// Subscribe opens an event stream scoped to one invoice. The returned
	// stop function tears the subscription down deterministically and closes
	// the channel; it must be safe to call more than once.
	//
	// Possible errors:
	// - ErrChannelUnavailable: if the channel backend cannot be reached
	Subscribe(ctx context.Context, invoiceID string) (<-chan entity.LockEvent, func(), error)
}
