// meta/meta.go
package meta

import "time"

// SERVER_URL is the default game server address.
const SERVER_URL = "http://localhost:8080"

// TRANSPORT defines how snapshots are received, "http" polling or "ws" streaming.
const TRANSPORT = "http"

// POLL_INTERVAL defines how often the HTTP transport asks for a new snapshot.
const POLL_INTERVAL = 50 * time.Millisecond

// GO_ROUTINES defines the number of goroutines planning owned bases.
const GO_ROUTINES = 1

// MAX_BACKOFF caps the wait between retries after transport failures.
const MAX_BACKOFF = 5 * time.Second

// LOG_LEVEL is the default zerolog level.
const LOG_LEVEL = "info"
