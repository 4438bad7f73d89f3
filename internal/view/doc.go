// Package view derives the filtered, sorted list of applications a board or
// listing shows.
//
// Derive is pure: it never mutates its input and returns a fresh slice. All
// non-default Criteria fields are AND-composed. Sorting is stable in both
// directions, so applications with equal keys keep their input order.
//
// Experience is free text. Its year count is the leading integer; text with no
// leading integer counts as 0 years. DeriveWithStats reports how many records
// fell back that way so callers can log it.
package view
