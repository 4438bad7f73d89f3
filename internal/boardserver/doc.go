// Package boardserver is the reference recruiting backend used for local
// development and integration tests.
//
// It serves the board REST contract over gin, stores jobs and applications in
// SQLite (modernc.org/sqlite, WAL mode, busy retries) and validates status
// writes against the stage registry. talentflowd wraps it with a single
// instance lock and optional seeding from the fallback fixtures.
package boardserver
