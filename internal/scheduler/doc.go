// Package scheduler implements the poll loop of the tracker.
//
// The Scheduler:
//   - Runs one fetch, analyze and persist cycle immediately on start
//   - Waits the configured interval after each cycle completes
//   - Isolates failures and panics to the cycle they occurred in
//   - Escalates once consecutive failures reach a cap, and optionally pauses
//     fetching until a cooldown elapses
package scheduler
