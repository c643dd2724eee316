// Package timeouts defines shared timeout constants used across the server.
// Centralizing these values prevents drift between boundaries and makes the
// durations discoverable.
package timeouts

import "time"

// StorageOpen caps the wait time when opening and migrating the database.
const StorageOpen = 10 * time.Second

// Shutdown limits how long the server waits for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// OutboxDispatch caps the time allowed for one outbox dispatch pass.
const OutboxDispatch = 30 * time.Second
