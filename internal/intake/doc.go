// Package intake models the commission intake record: the player, their
// instrument and rig, and the Rhodes diagnostics when restoring a piano.
package intake
