// Package board is the page-level state object of the pipeline board.
//
// A Controller owns the application store, the active filter criteria and
// sort order, the selection, and the drag gesture. Every transition is applied
// to the store synchronously (optimistic update) and then persisted on a
// goroutine through the data source. Failed writes keep the optimistic state
// and are tracked as unsynced until Resync succeeds. Wait blocks until all
// in-flight writes have finished; the CLI and tests use it before exiting.
package board
