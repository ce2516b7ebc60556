// Package tracestore persists scenario run traces to SQLite.
//
// The store is a driver-side log, not a model persistence layer: the frame
// graph itself lives purely in memory, and the store only records the event
// trace a run produced, keyed by run token. Recorded runs can be listed and
// replayed for inspection (`framegraph trace`).
//
// Layout:
//   - runs: one row per execution (token, scenario name, pass verdict)
//   - events: the ordered trace, one row per event, unique per (run, seq)
//
// Writes are append-only and idempotent: re-recording a run token is a
// no-op thanks to ON CONFLICT DO NOTHING, so a crashed CLI can safely
// re-run with the same pinned token.
package tracestore
