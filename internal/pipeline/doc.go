// Package pipeline holds the in-memory application store for the job a board
// is showing.
//
// The Store is the single source of truth for application records. Load
// replaces its contents wholesale; SetStatus and SetStatusIfVersion are the
// only mutations, and they change nothing but Status and Version. Every
// application belongs to exactly one Partition bucket: its stage, or the
// reserved unknown bucket when the status is not registered.
package pipeline
