package presence

import (
	"context"
	"sync"
	"time"

	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/domain/port/realtime"
)

// session is the per-user tracking state. requested is the optimistic local
// view (applied before the announce lands), lastSent the last claim actually
// announced, suspended the claim to restore when a hidden tab becomes visible
// again.
type session struct {
	identity  entity.Identity
	requested entity.PresenceEntry
	lastSent  *entity.PresenceEntry
	suspended *entity.PresenceEntry
	debounce  *debouncer
}

// Tracker maintains the ephemeral roster of who is viewing or editing which
// invoice. It is explicitly non-authoritative: nothing here ever gates a
// write, and every channel failure is swallowed after logging. Losing
// presence connectivity degrades the conflict UI, never the data.
type Tracker struct {
	channel      realtime.PresenceChannel
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	config       Config

	mu       sync.RWMutex
	sessions map[string]*session
	roster   map[string]entity.PresenceEntry

	runOnce   sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewTracker creates a presence tracker on the shared channel
func NewTracker(
	channel realtime.PresenceChannel,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	config Config,
) *Tracker {
	return &Tracker{
		channel:      channel,
		timeProvider: timeProvider,
		logger:       logger,
		config:       config,
		sessions:     make(map[string]*session),
		roster:       make(map[string]entity.PresenceEntry),
	}
}

// Start subscribes once to the shared channel and begins reconciling the
// roster. A failed subscribe degrades to periodic roster reads; it is not an
// error the caller has to handle.
func (t *Tracker) Start(ctx context.Context) {
	t.runOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		t.cancel = cancel

		events, stopFeed, err := t.channel.Subscribe(runCtx)
		if err != nil {
			t.logger.Warn("Presence channel unavailable, roster limited to periodic sync", map[string]any{
				"error": err.Error(),
			})
			events = nil
			stopFeed = func() {}
		}

		t.wg.Add(1)
		go t.run(runCtx, events, stopFeed)
	})
}

// Close tears down the subscription and waits for the event loop to finish
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		if t.cancel != nil {
			t.cancel()
		}
		t.wg.Wait()
	})
}

// run consumes channel events and periodically re-reads the full roster.
// Events after subscribe time plus periodic reconciliation together tolerate
// missed or out-of-order deliveries.
func (t *Tracker) run(ctx context.Context, events <-chan entity.PresenceEvent, stopFeed func()) {
	defer t.wg.Done()
	defer stopFeed()

	// Realtime channels only deliver changes made after subscribe time, so
	// seed the roster with a direct read.
	t.syncRoster(ctx)

	ticker := time.NewTicker(t.config.RosterSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				t.logger.Warn("Presence event stream closed, falling back to periodic sync", nil)
				events = nil
				continue
			}
			t.applyEvent(event)

		case <-ticker.C:
			t.syncRoster(ctx)
		}
	}
}

func (t *Tracker) applyEvent(event entity.PresenceEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch event.Kind {
	case entity.PresenceJoin, entity.PresenceUpdate:
		if event.Entry != nil {
			t.roster[event.Entry.UserID] = *event.Entry
		}
	case entity.PresenceLeave:
		if event.Entry != nil {
			delete(t.roster, event.Entry.UserID)
		}
	case entity.PresenceSync:
		t.replaceRoster(event.Roster)
	}
}

func (t *Tracker) syncRoster(ctx context.Context) {
	entries, err := t.channel.Roster(ctx)
	if err != nil {
		t.logger.Warn("Presence roster sync failed", map[string]any{
			"error": err.Error(),
		})
		return
	}

	t.mu.Lock()
	t.replaceRoster(entries)
	t.mu.Unlock()
}

// replaceRoster swaps the full roster. Caller holds t.mu.
func (t *Tracker) replaceRoster(entries []entity.PresenceEntry) {
	t.roster = make(map[string]entity.PresenceEntry, len(entries))
	for _, entry := range entries {
		t.roster[entry.UserID] = entry
	}
}

// Join registers the user's session and announces an idle entry. The
// subscription and session lifecycle are keyed to identity alone: joining
// again with the same identity is a no-op, while a changed email re-announces.
func (t *Tracker) Join(ctx context.Context, user entity.Identity) error {
	if err := user.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	existing, ok := t.sessions[user.UserID]
	if ok && existing.identity == user {
		t.mu.Unlock()
		return nil
	}

	entry := entity.NewPresenceEntry(user, t.timeProvider)
	t.sessions[user.UserID] = &session{
		identity:  user,
		requested: entry,
		debounce:  newDebouncer(t.config.Debounce),
	}
	// Optimistic local apply; presence is non-authoritative
	t.roster[user.UserID] = entry
	t.mu.Unlock()

	t.announce(ctx, user.UserID, entry)
	t.logger.Debug("Presence session joined", map[string]any{
		"user_id":    user.UserID,
		"user_email": user.Email,
	})
	return nil
}

// Update re-announces the user's claim. Unchanged claims are skipped and
// bursts are debounced, so callers may invoke this on every render.
func (t *Tracker) Update(ctx context.Context, user entity.Identity, invoiceID string, status entity.PresenceStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := t.Join(ctx, user); err != nil {
		return err
	}

	entry := entity.PresenceEntry{
		UserID:           user.UserID,
		UserEmail:        user.Email,
		CurrentInvoiceID: invoiceID,
		Status:           status,
		LastActivity:     t.timeProvider.Now(),
	}

	t.mu.Lock()
	sess := t.sessions[user.UserID]
	if sess.requested.SameClaim(entry) {
		t.mu.Unlock()
		return nil
	}
	sess.requested = entry
	t.roster[user.UserID] = entry
	debounce := sess.debounce
	t.mu.Unlock()

	// The announce fires after the debounce window, when an HTTP caller's
	// request context is long gone. Detach it so the deferred Track cannot
	// fail with the caller's cancellation.
	announceCtx := context.WithoutCancel(ctx)
	debounce.Trigger(func() {
		t.announceLatest(announceCtx, user.UserID)
	})
	return nil
}

// Suspend announces idle with no invoice (tab hidden or unloading) and
// remembers the prior claim for Resume
func (t *Tracker) Suspend(ctx context.Context, user entity.Identity) {
	t.mu.Lock()
	sess, ok := t.sessions[user.UserID]
	if !ok {
		t.mu.Unlock()
		return
	}
	prior := sess.requested
	sess.suspended = &prior

	idle := entity.NewPresenceEntry(sess.identity, t.timeProvider)
	sess.requested = idle
	t.roster[user.UserID] = idle
	debounce := sess.debounce
	t.mu.Unlock()

	// The tab may be going away entirely; skip the debounce window
	debounce.Stop()
	t.announce(ctx, user.UserID, idle)
}

// Resume re-announces the claim that was current before Suspend
func (t *Tracker) Resume(ctx context.Context, user entity.Identity) {
	t.mu.Lock()
	sess, ok := t.sessions[user.UserID]
	if !ok || sess.suspended == nil {
		t.mu.Unlock()
		return
	}
	restored := *sess.suspended
	restored.LastActivity = t.timeProvider.Now()
	sess.suspended = nil
	sess.requested = restored
	t.roster[user.UserID] = restored
	t.mu.Unlock()

	t.announce(ctx, user.UserID, restored)
}

// Leave withdraws the user's entry and drops the session. Best-effort: if it
// never runs, the entry's lease expiry removes it anyway.
func (t *Tracker) Leave(ctx context.Context, user entity.Identity) {
	t.mu.Lock()
	sess, ok := t.sessions[user.UserID]
	if !ok {
		t.mu.Unlock()
		return
	}
	delete(t.sessions, user.UserID)
	delete(t.roster, user.UserID)
	debounce := sess.debounce
	t.mu.Unlock()

	debounce.Stop()
	if err := t.channel.Untrack(ctx, user.UserID); err != nil {
		t.logger.Warn("Failed to withdraw presence entry", map[string]any{
			"user_id": user.UserID,
			"error":   err.Error(),
		})
	}
}

// UsersOnInvoice returns every other user's entry on the invoice. Order is
// not guaranteed; consumers must not rely on it.
func (t *Tracker) UsersOnInvoice(invoiceID, excludeUserID string) []entity.PresenceEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var entries []entity.PresenceEntry
	for _, entry := range t.roster {
		if entry.UserID == excludeUserID {
			continue
		}
		if entry.OnInvoice(invoiceID) {
			entries = append(entries, entry)
		}
	}
	return entries
}

// IsInvoiceBeingEdited reports whether any other user has an editing claim
// on the invoice
func (t *Tracker) IsInvoiceBeingEdited(invoiceID, excludeUserID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, entry := range t.roster {
		if entry.UserID == excludeUserID {
			continue
		}
		if entry.OnInvoice(invoiceID) && entry.Status == entity.StatusEditing {
			return true
		}
	}
	return false
}

// announceLatest announces the most recently requested claim for the user.
// Debounced bursts land here once, carrying the final state.
func (t *Tracker) announceLatest(ctx context.Context, userID string) {
	t.mu.RLock()
	sess, ok := t.sessions[userID]
	if !ok {
		t.mu.RUnlock()
		return
	}
	entry := sess.requested
	t.mu.RUnlock()

	t.announce(ctx, userID, entry)
}

// announce pushes the entry to the channel, recording it as sent on success.
// Channel failures are logged and swallowed at this boundary.
func (t *Tracker) announce(ctx context.Context, userID string, entry entity.PresenceEntry) {
	if err := t.channel.Track(ctx, entry); err != nil {
		t.logger.Warn("Presence announce failed", map[string]any{
			"user_id": userID,
			"status":  string(entry.Status),
			"error":   err.Error(),
		})
		return
	}

	t.mu.Lock()
	if sess, ok := t.sessions[userID]; ok {
		sent := entry
		sess.lastSent = &sent
	}
	t.mu.Unlock()
}
