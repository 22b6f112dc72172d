// Package preflight provides readiness checks for the filesystem paths and
// the generation provider that Ghostwood depends on.
//
// The CLI "ghostwood status" command runs Run and prints each Result; the
// "serve" command runs the directory checks before binding and refuses to
// start when one fails. A failed provider check only warns, since the wizard
// degrades to its retry message without one.
package preflight
