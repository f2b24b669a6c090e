package famsdk

import (
	"context"
	"sync"
	"time"
)

// State of the sync agent's session lifecycle.
type State int

const (
	// StateUninitialized means no session exists: fresh install or after
	// logout. The UI shows the login flow.
	StateUninitialized State = iota

	// StateCached means a snapshot is held locally. It may be stale; the
	// FetchedAt timestamp says how stale.
	StateCached

	// StateReconciling means a fetch is in flight. The previous snapshot
	// stays visible until the fetch lands.
	StateReconciling

	// StateSessionExpired means the server rejected the token. The cached
	// snapshot is kept for display but every mutation requires re-login.
	StateSessionExpired
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCached:
		return "cached"
	case StateReconciling:
		return "reconciling"
	case StateSessionExpired:
		return "session_expired"
	default:
		return "unknown"
	}
}

// DefaultReconcileInterval is the periodic background refresh cadence.
const DefaultReconcileInterval = 5 * time.Minute

// Listener observes agent state transitions. Called synchronously after each
// committed transition with the new state and the current snapshot.
type Listener func(state State, snapshot Snapshot)

// SyncAgent owns the client-side copy of {user, family} and reconciles it
// against the server. Reconciliation is single-flight: concurrent triggers
// (focus, timer, pull-to-refresh) coalesce onto one in-flight fetch. A
// snapshot is swapped into the cache all-or-nothing; a failed or cancelled
// fetch leaves the previous snapshot untouched.
type SyncAgent struct {
	Client   *Client
	Cache    CacheStore
	Interval time.Duration

	mu         sync.Mutex
	state      State
	cached     CachedState
	hasCache   bool
	needsRetry bool
	lastErr    error
	inflight   chan struct{}
	listeners  []Listener

	stopOnce sync.Once
	stop     chan struct{}
}

// NewSyncAgent creates an agent over the given client and cache store.
func NewSyncAgent(client *Client, cache CacheStore) *SyncAgent {
	return &SyncAgent{
		Client:   client,
		Cache:    cache,
		Interval: DefaultReconcileInterval,
		state:    StateUninitialized,
		stop:     make(chan struct{}),
	}
}

// Restore loads the persisted cache, if any, and moves to StateCached, or to
// StateSessionExpired when the persisted session carries no usable token.
// Call once at startup before Start.
func (a *SyncAgent) Restore() error {
	state, ok, err := a.Cache.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if state.Token == "" {
		// A previous run recorded the session as expired. Keep the snapshot
		// visible but require a fresh login before any network activity.
		a.mu.Lock()
		a.cached = state
		a.hasCache = true
		a.setStateLocked(StateSessionExpired)
		a.mu.Unlock()
		return nil
	}

	a.Client.SetToken(state.Token)

	a.mu.Lock()
	a.cached = state
	a.hasCache = true
	a.setStateLocked(StateCached)
	a.mu.Unlock()
	return nil
}

// SetSession installs a fresh session after login or registration. The
// snapshot came straight from the server, so it replaces the cache wholesale.
func (a *SyncAgent) SetSession(auth AuthResponse) error {
	a.Client.SetToken(auth.Token)

	state := CachedState{
		Snapshot:  Snapshot{User: auth.User, Family: auth.Family},
		Token:     auth.Token,
		FetchedAt: time.Now().UTC(),
	}
	if err := a.Cache.Save(state); err != nil {
		return err
	}

	a.mu.Lock()
	a.cached = state
	a.hasCache = true
	a.needsRetry = false
	a.lastErr = nil
	a.setStateLocked(StateCached)
	a.mu.Unlock()
	return nil
}

// Logout clears the session and cache.
func (a *SyncAgent) Logout() error {
	a.Client.SetToken("")
	if err := a.Cache.Clear(); err != nil {
		return err
	}

	a.mu.Lock()
	a.cached = CachedState{}
	a.hasCache = false
	a.needsRetry = false
	a.lastErr = nil
	a.setStateLocked(StateUninitialized)
	a.mu.Unlock()
	return nil
}

// Start runs the periodic reconciliation loop until Stop or ctx
// cancellation. Each tick is skipped if a reconciliation is already in
// flight; there is no retry storm on failure, the agent just waits for the
// next natural trigger.
func (a *SyncAgent) Start(ctx context.Context) {
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-a.stop:
				return
			case <-ticker.C:
				if a.State() == StateUninitialized || a.State() == StateSessionExpired {
					continue
				}
				_ = a.Reconcile(ctx)
			}
		}
	}()
}

// Stop halts the periodic loop. Safe to call more than once.
func (a *SyncAgent) Stop() {
	a.stopOnce.Do(func() { close(a.stop) })
}

// Reconcile fetches the server snapshot and swaps it into the cache. If a
// reconciliation is already in flight the call coalesces onto it: it waits
// for that fetch and returns its outcome rather than starting a second one.
//
// Outcomes:
//   - success: cache swapped atomically, StateCached, retry flag cleared
//   - token rejected: credentials cleared, StateSessionExpired, snapshot
//     kept for display
//   - transport failure or cancellation: cache untouched, retry flag set
func (a *SyncAgent) Reconcile(ctx context.Context) error {
	a.mu.Lock()
	if a.inflight != nil {
		done := a.inflight
		a.mu.Unlock()
		select {
		case <-done:
			return a.LastError()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	done := make(chan struct{})
	a.inflight = done
	a.setStateLocked(StateReconciling)
	a.mu.Unlock()

	err := a.reconcileOnce(ctx)

	a.mu.Lock()
	a.lastErr = err
	a.inflight = nil
	a.mu.Unlock()
	close(done)
	return err
}

func (a *SyncAgent) reconcileOnce(ctx context.Context) error {
	snap, err := a.Client.Me(ctx)
	if err != nil {
		if IsSessionExpired(err) {
			a.expireSession()
			return err
		}

		a.mu.Lock()
		defer a.mu.Unlock()

		// Transport failure or cancellation: outcome unknown, keep the
		// cached snapshot and surface a retry affordance.
		a.needsRetry = true
		if a.hasCache {
			a.setStateLocked(StateCached)
		} else {
			a.setStateLocked(StateUninitialized)
		}
		return err
	}

	state := CachedState{
		Snapshot:  snap,
		Token:     a.Client.Token(),
		FetchedAt: time.Now().UTC(),
	}
	if err := a.Cache.Save(state); err != nil {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.needsRetry = true
		if a.hasCache {
			a.setStateLocked(StateCached)
		} else {
			a.setStateLocked(StateUninitialized)
		}
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.cached = state
	a.hasCache = true
	a.needsRetry = false
	a.setStateLocked(StateCached)
	return nil
}

// expireSession clears the dead token from the client and from the persisted
// cache so a restart cannot resurrect the session, then parks the agent in
// StateSessionExpired. The snapshot stays cached for display.
func (a *SyncAgent) expireSession() {
	a.Client.SetToken("")

	a.mu.Lock()
	a.cached.Token = ""
	expired := a.cached
	persist := a.hasCache
	a.setStateLocked(StateSessionExpired)
	a.mu.Unlock()

	if persist {
		// Best effort: the caller needs to see the expiry error, and a
		// failed persist only delays the cleanup until the next Save.
		_ = a.Cache.Save(expired)
	}
}

// Apply merges a snapshot returned by a mutation (create/join/leave) into the
// cache, bypassing a full reconciliation fetch. Same all-or-nothing rules.
func (a *SyncAgent) Apply(snap Snapshot) error {
	state := CachedState{
		Snapshot:  snap,
		Token:     a.Client.Token(),
		FetchedAt: time.Now().UTC(),
	}
	if err := a.Cache.Save(state); err != nil {
		return err
	}

	a.mu.Lock()
	a.cached = state
	a.hasCache = true
	a.setStateLocked(StateCached)
	a.mu.Unlock()
	return nil
}

// State returns the current lifecycle state.
func (a *SyncAgent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Snapshot returns the cached snapshot and whether one exists.
func (a *SyncAgent) Snapshot() (Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cached.Snapshot, a.hasCache
}

// FetchedAt returns when the cached snapshot was confirmed by the server.
func (a *SyncAgent) FetchedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cached.FetchedAt
}

// NeedsRetry reports whether the last reconciliation failed in a way worth a
// manual retry affordance in the UI.
func (a *SyncAgent) NeedsRetry() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.needsRetry
}

// LastError returns the error from the most recent reconciliation attempt.
func (a *SyncAgent) LastError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Subscribe registers a listener for state transitions. Listeners are invoked
// synchronously; keep them cheap.
func (a *SyncAgent) Subscribe(l Listener) {
	a.mu.Lock()
	a.listeners = append(a.listeners, l)
	a.mu.Unlock()
}

// setStateLocked transitions the state and notifies listeners. Callers must
// hold a.mu.
func (a *SyncAgent) setStateLocked(next State) {
	if a.state == next {
		return
	}
	a.state = next
	for _, l := range a.listeners {
		l(next, a.cached.Snapshot)
	}
}
