// Package session holds the per-user view state and its transitions.
//
// # Phases
//
// A [State] moves Idle → Loading → Shown and back to Idle through pure functions that take a State
// and return the next one:
//   - [Begin] validates the input. Invalid input leaves the phase alone and sets a warning notice.
//   - [Complete] applies the result of a run. Failures, and answers with no usable block, return to
//     Idle with an error notice.
//   - [Reset] clears the result and returns to Idle.
//
// Recommendation records are never stored: [State.Report] parses the raw text of the last successful
// run each time it is rendered.
//
// # Store
//
// [Store] keeps states in memory keyed by a random id carried in a cookie. Entries expire after a
// period of inactivity.
package session
