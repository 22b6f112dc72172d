// Package specgen generates pickup specifications from an intake and
// recalculates them after manual adjustments.
//
// Rhodes intakes take the restoration prompt and must come back with a
// resistance in ohms inside the Rhodes range; guitar and bass intakes take
// the build prompt, which pins the physical routing and the magnet whitelist.
// Every response is decoded strictly through pickup.Decode, so a failed or
// malformed response never yields a partial spec.
package specgen
