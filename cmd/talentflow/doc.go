// Command talentflow is the operator CLI for the candidate pipeline board.
//
// It loads a job's applications from the configured recruiting backend, or
// from the local fallback dataset when the backend is unreachable, and lets
// the operator inspect the board, filter and sort applications, and move
// candidates between stages one at a time or in bulk.
package main
