// Package colorcache persists colorings between runs.
//
// An Entry is a Coloring plus its fingerprint (already embedded in the
// Coloring) and a save timestamp, encoded as an opaque YAML blob. Keys are
// derived by the caller from the declaring block's path or class name; the
// cache itself is a plain keyed blob store and knows nothing about models.
//
// Entries are write-once: a changed model produces a new entry under the
// same key, never an in-place edit of a loaded one. Whether a loaded entry
// still applies is the caller's job — approx.Manager checks the fingerprint
// and treats a mismatch as fatal.
//
// Two implementations: Memory (a mutex-guarded map, handy for tests and
// single-run sharing) and DB (a LevelDB directory store for reuse across
// processes; LevelDB is single-writer, so one process owns the cache at a
// time).
package colorcache
