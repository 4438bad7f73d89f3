// Package reconciler decides whether board data comes from the remote
// recruiting backend or the local fallback dataset.
//
// Init probes the remote's health once, bounded by a short timeout, and picks
// a mode. In remote mode a failed read degrades to the fallback for that call
// only; the mode is not flipped, so one transient error does not pin every
// later read to stale data. Writes are best effort: a failed remote write is
// logged and reported in the Result, never retried, and never blocks longer
// than the persist timeout. Callers decide what to do with the local state;
// the board keeps its optimistic update.
//
// Reprobe re-runs the health check so a recovered backend can be adopted.
package reconciler
