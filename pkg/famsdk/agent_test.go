package famsdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/famlyapp/famly/pkg/famsdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFixture(familyName string) famsdk.Snapshot {
	familyID := "01JFAM0000000000000000FAM1"
	return famsdk.Snapshot{
		User: famsdk.User{
			ID:       "01JUSR0000000000000000USR1",
			Email:    "alice@example.com",
			Name:     "Alice",
			FamilyID: &familyID,
			Role:     "admin",
		},
		Family: &famsdk.Family{
			ID:          familyID,
			Name:        familyName,
			FamilyCode:  "A1B2C3D4",
			MemberCount: 1,
			Members: []famsdk.Member{
				{ID: "01JUSR0000000000000000USR1", Name: "Alice", Email: "alice@example.com", Role: "admin"},
			},
		},
	}
}

// meServer serves GET /api/auth/me with the snapshot held in snap.
func meServer(t *testing.T, snap *famsdk.Snapshot) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReconcile_SwapsCache(t *testing.T) {
	snap := snapshotFixture("Smiths")
	srv := meServer(t, &snap)

	client := famsdk.NewClient(srv.URL)
	client.SetToken("token-1")
	agent := famsdk.NewSyncAgent(client, famsdk.NewMemoryCache())

	require.NoError(t, agent.Reconcile(context.Background()))

	got, ok := agent.Snapshot()
	require.True(t, ok)
	require.NotNil(t, got.Family)
	assert.Equal(t, "Smiths", got.Family.Name)
	assert.Equal(t, famsdk.StateCached, agent.State())
	assert.False(t, agent.NeedsRetry())

	// Server-side change lands on the next reconciliation.
	snap.Family.Name = "Renamed"
	require.NoError(t, agent.Reconcile(context.Background()))
	got, _ = agent.Snapshot()
	assert.Equal(t, "Renamed", got.Family.Name)
}

func TestReconcile_Idempotent(t *testing.T) {
	snap := snapshotFixture("Steady")
	srv := meServer(t, &snap)

	client := famsdk.NewClient(srv.URL)
	client.SetToken("token-1")
	agent := famsdk.NewSyncAgent(client, famsdk.NewMemoryCache())

	require.NoError(t, agent.Reconcile(context.Background()))
	first, _ := agent.Snapshot()

	require.NoError(t, agent.Reconcile(context.Background()))
	second, _ := agent.Snapshot()

	// Only FetchedAt may differ between two no-change reconciliations.
	assert.Equal(t, first, second)
}

func TestReconcile_NetworkErrorKeepsCache(t *testing.T) {
	snap := snapshotFixture("Smiths")
	srv := meServer(t, &snap)

	client := famsdk.NewClient(srv.URL)
	client.SetToken("token-1")
	agent := famsdk.NewSyncAgent(client, famsdk.NewMemoryCache())

	require.NoError(t, agent.Reconcile(context.Background()))

	// Kill the server; the next reconciliation fails at transport level.
	srv.Close()
	err := agent.Reconcile(context.Background())
	require.Error(t, err)
	assert.False(t, famsdk.IsSessionExpired(err))

	// Stale cache stays visible with a retry affordance.
	got, ok := agent.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Smiths", got.Family.Name)
	assert.Equal(t, famsdk.StateCached, agent.State())
	assert.True(t, agent.NeedsRetry())
}

func TestReconcile_ExpiredTokenMovesToSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(famsdk.ErrorResponse{
			Error: famsdk.ErrorCodeTokenExpired, Message: "token expired",
		})
	}))
	t.Cleanup(srv.Close)

	client := famsdk.NewClient(srv.URL)
	cache := famsdk.NewMemoryCache()
	agent := famsdk.NewSyncAgent(client, cache)

	snap := snapshotFixture("Stale")
	require.NoError(t, agent.SetSession(famsdk.AuthResponse{
		Token:  "stale-token",
		User:   snap.User,
		Family: snap.Family,
	}))

	err := agent.Reconcile(context.Background())
	require.Error(t, err)
	assert.True(t, famsdk.IsSessionExpired(err))
	assert.Equal(t, famsdk.StateSessionExpired, agent.State())

	// The dead token is cleared from the client and the persisted cache so a
	// restart cannot resurrect the session; the snapshot stays for display.
	assert.Empty(t, client.Token())
	persisted, ok, err := cache.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, persisted.Token)
	assert.Equal(t, "Stale", persisted.Snapshot.Family.Name)

	got, ok := agent.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Stale", got.Family.Name)
}

func TestReconcile_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	var requests atomic.Int64

	snap := snapshotFixture("Slow")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snap)
	}))
	t.Cleanup(srv.Close)

	client := famsdk.NewClient(srv.URL)
	client.SetToken("token-1")
	agent := famsdk.NewSyncAgent(client, famsdk.NewMemoryCache())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = agent.Reconcile(context.Background())
		}()
	}

	// Give the goroutines time to pile up behind the in-flight fetch, then
	// let the single request finish.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), requests.Load())
	assert.Equal(t, famsdk.StateCached, agent.State())
}

func TestSetSessionAndLogout(t *testing.T) {
	client := famsdk.NewClient("http://unused.invalid")
	cache := famsdk.NewMemoryCache()
	agent := famsdk.NewSyncAgent(client, cache)

	snap := snapshotFixture("Fresh")
	require.NoError(t, agent.SetSession(famsdk.AuthResponse{
		Token:  "new-token",
		User:   snap.User,
		Family: snap.Family,
	}))

	assert.Equal(t, famsdk.StateCached, agent.State())
	assert.Equal(t, "new-token", client.Token())
	got, ok := agent.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Fresh", got.Family.Name)

	require.NoError(t, agent.Logout())
	assert.Equal(t, famsdk.StateUninitialized, agent.State())
	assert.Empty(t, client.Token())
	_, ok = agent.Snapshot()
	assert.False(t, ok)
}

func TestRestore_FromFileCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "famly.json")
	cache := famsdk.NewFileCache(path)

	snap := snapshotFixture("Persisted")
	require.NoError(t, cache.Save(famsdk.CachedState{
		Snapshot:  snap,
		Token:     "persisted-token",
		FetchedAt: time.Now().UTC(),
	}))

	client := famsdk.NewClient("http://unused.invalid")
	agent := famsdk.NewSyncAgent(client, famsdk.NewFileCache(path))

	require.NoError(t, agent.Restore())
	assert.Equal(t, famsdk.StateCached, agent.State())
	assert.Equal(t, "persisted-token", client.Token())

	got, ok := agent.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Persisted", got.Family.Name)
}

// A cache persisted after session expiry carries no token; restoring it must
// not pretend the user is logged in.
func TestRestore_ExpiredSessionStaysExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "famly.json")
	require.NoError(t, famsdk.NewFileCache(path).Save(famsdk.CachedState{
		Snapshot:  snapshotFixture("Expired"),
		Token:     "",
		FetchedAt: time.Now().UTC(),
	}))

	client := famsdk.NewClient("http://unused.invalid")
	agent := famsdk.NewSyncAgent(client, famsdk.NewFileCache(path))

	require.NoError(t, agent.Restore())
	assert.Equal(t, famsdk.StateSessionExpired, agent.State())
	assert.Empty(t, client.Token())

	got, ok := agent.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Expired", got.Family.Name)
}

func TestRestore_NoCacheIsNoop(t *testing.T) {
	client := famsdk.NewClient("http://unused.invalid")
	agent := famsdk.NewSyncAgent(client,
		famsdk.NewFileCache(filepath.Join(t.TempDir(), "missing.json")))

	require.NoError(t, agent.Restore())
	assert.Equal(t, famsdk.StateUninitialized, agent.State())
}

func TestSubscribe_ObservesTransitions(t *testing.T) {
	snap := snapshotFixture("Observed")
	srv := meServer(t, &snap)

	client := famsdk.NewClient(srv.URL)
	client.SetToken("token-1")
	agent := famsdk.NewSyncAgent(client, famsdk.NewMemoryCache())

	var states []famsdk.State
	agent.Subscribe(func(s famsdk.State, _ famsdk.Snapshot) {
		states = append(states, s)
	})

	require.NoError(t, agent.Reconcile(context.Background()))
	assert.Equal(t, []famsdk.State{famsdk.StateReconciling, famsdk.StateCached}, states)
}

func TestClient_AlreadyInFamilyErrorCarriesFamily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(famsdk.ErrorResponse{
			Error:   famsdk.ErrorCodeAlreadyInFamily,
			Message: "user already belongs to a family",
			Family:  snapshotFixture("Existing").Family,
		})
	}))
	t.Cleanup(srv.Close)

	client := famsdk.NewClient(srv.URL)
	client.SetToken("token-1")

	_, err := client.JoinFamily(context.Background(), "A1B2C3D4")
	require.True(t, famsdk.IsAlreadyInFamily(err))

	var apiErr *famsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.Family)
	assert.Equal(t, "Existing", apiErr.Family.Name)
}
