/*
Package famsdk provides a client SDK for the famly API.

# Overview

The package is organized around two types:

  - Client: a thin JSON client over the HTTP API
  - SyncAgent: owns the local copy of {user, family} and keeps it reconciled
    against the server

Create a Client to talk to the API directly:

	client := famsdk.NewClient("https://famly.example.com")

	auth, err := client.Login(ctx, "user@example.com", "password")
	snap, err := client.Me(ctx)

# SyncAgent

Mobile and desktop frontends should not call Client directly for reads.
Instead they hold a SyncAgent, which caches the last confirmed snapshot and
reconciles it opportunistically:

	agent := famsdk.NewSyncAgent(client, famsdk.NewFileCache(cachePath))
	_ = agent.Restore()                // pick up a persisted session
	agent.Start(ctx)                   // periodic background reconciliation

	// on login:
	auth, err := client.Login(ctx, email, password)
	_ = agent.SetSession(auth)

	// on screen focus or pull-to-refresh:
	_ = agent.Reconcile(ctx)

	// reads come from the cache, never the network:
	snap, ok := agent.Snapshot()

The agent's contract:

  - Reconciliation is single-flight; concurrent triggers coalesce onto one
    in-flight fetch.
  - The cache is swapped all-or-nothing. A failed or cancelled fetch leaves
    the previous snapshot byte-for-byte intact.
  - A transport failure keeps the stale snapshot visible and sets NeedsRetry;
    the agent never retries in a tight loop.
  - A rejected token moves the agent to StateSessionExpired and clears the
    dead credentials from the client and the persisted cache; the cached
    snapshot stays available for display but the user must log in again,
    even across a restart.

# Error Handling

Server rejections come back as *APIError with a stable machine-readable code.
Transport failures are plain wrapped errors. Helpers cover the common
branches:

	snap, err := client.JoinFamily(ctx, code)
	switch {
	case famsdk.IsAlreadyInFamily(err):
		// resync from the family attached to the error
	case famsdk.IsNotFound(err):
		// bad code
	case famsdk.IsSessionExpired(err):
		// force re-login
	}
*/
package famsdk
