// Package history keeps the saved design list: at most ten designs, newest
// first, unique by id.
//
// The list is persisted as one JSON array under a single key, in either a
// sqlite table (SQLiteSlot) or a flock-guarded file (FileSlot). Reading is
// fail-open: a missing or corrupt slot starts an empty history rather than
// blocking the workshop.
package history
