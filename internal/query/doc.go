// Package query computes read-only views over a set of candidate records:
// rank and percentile, score averages, pass/fail filtering, pass-flag
// recomputation after a max score change, and name suggestions.
//
// Functions take records by value and never touch persistence. Recompute is
// the one function that mutates, and it only mutates the map it is given.
package query
