// Package services defines shared utilities consumed by the pipeline engine,
// the data source reconciler, and the reference board server.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, application IDs, stage names, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified (programmer error vs degraded source) and mapped onto HTTP
//     status codes consistently.
//
// Use these helpers when wiring new components so operational behaviour (error
// handling, observability) stays uniform across the engine.
package services
