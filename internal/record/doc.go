// Package record provides the candidate record and store document types.
//
// This package contains type definitions and the pass rule only. All other
// internal packages import record; record imports nothing internal.
//
// Key constraints:
//   - Passed is derived: Passed == (SATScore > PassRatio * MaxScore)
//   - Record names are NFC-normalized before they are used as keys
//   - All JSON tags use snake_case
package record
