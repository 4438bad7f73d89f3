// Package stage defines the ordered hiring workflow the pipeline board is
// laid out on.
//
// A Registry is built once at startup, either from the built-in six-stage
// workflow or from [[stages]] overrides in the config file, and is read-only
// afterwards. Display metadata (label, color, icon, destructive flag) is
// resolved at construction from a table keyed by Kind, so callers never branch
// on stage id strings to decide how a column looks or whether a bulk move
// needs confirmation.
//
// Any stage may transition to any other stage. Application statuses that do
// not match a registered stage are reported in the reserved Unknown bucket.
package stage
