// Package repositories implements SQLite persistence for the enrollment journal.
//
// The journal records which account names were presented in each session and how the
// session ended. It never stores secrets or enrollment URIs.
//
// Key Implementations:
//   - [JournalRepository] : [models.Journal] backed by the sessions and presentations tables
//
// Sequence numbers provide stable, human-readable ordering (e.g., session #42) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
