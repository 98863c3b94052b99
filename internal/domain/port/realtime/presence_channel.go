package realtime

import (
	"context"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
)

// PresenceChannel is the shared roster channel every authenticated session
// joins once. Entries are connection-scoped: an implementation must make them
// disappear on their own when the owning connection goes away, with no
// explicit deletion required.
type PresenceChannel interface {
	// Track announces (or re-announces) the caller's own entry and renews its
	// lease. A client may only ever write its own entry.
	//
	// Possible errors:
	// - ErrChannelUnavailable: if the channel backend cannot be reached
	Track(ctx context.Context, entry entity.PresenceEntry) error

	// Untrack withdraws the caller's entry ahead of its lease expiry.
	// Best-effort: expiry covers the cases where this never runs.
	Untrack(ctx context.Context, userID string) error

	// Subscribe opens the shared event stream. The stop function tears the
	// subscription down deterministically and closes the channel.
	//
	// Possible errors:
	// - ErrChannelUnavailable: if the channel backend cannot be reached
	Subscribe(ctx context.Context) (<-chan entity.PresenceEvent, func(), error)

	// Roster returns the current live entries for reconciliation. Realtime
	// systems only deliver changes after subscribe time, so joiners and
	// periodic resyncs read the roster directly.
	//
	// Possible errors:
	// - ErrChannelUnavailable: if the channel backend cannot be reached
	Roster(ctx context.Context) ([]entity.PresenceEntry, error)
}
