// Package store provides the JSON-file-backed store for candidate records.
//
// The store holds one document, { max_score, records }, loaded once at
// startup and rewritten wholesale on every mutation.
//
// # Critical Patterns
//
// Pass flag invariant
//   - Every record satisfies Passed == (SATScore > 0.3 * MaxScore)
//   - Insert and UpdateScore derive Passed; SetMaxScore recomputes all flags
//   - Flags that disagree on load are repaired in memory and logged
//
// Copy, write, swap
//   - Mutations run against a clone of the live document
//   - The clone is written to disk; only on success does it replace the live document
//   - A failed write leaves in-memory state identical to the pre-mutation state
//
// Lenient load
//   - A missing file yields an empty store with the default max score
//   - A file that fails to parse or to validate against schema.cue also yields
//     an empty store; the reason is kept in LoadWarning and logged
//
// # File Format
//
// Indented JSON (two spaces), map keys sorted, no HTML escaping. Writes go to
// a temp file in the same directory which is then renamed over the target.
package store
