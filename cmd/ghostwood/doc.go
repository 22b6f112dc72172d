// Package main hosts the Ghostwood CLI entrypoint and command graph.
//
// "ghostwood serve" runs the HTTP configurator that drives the design wizard.
// The remaining commands work directly against the local design history and
// the generation provider: listing and comparing saved designs, browsing the
// catalog, generating a spec from an intake file, scaffolding configuration
// and checking the environment.
//
// Keep this package lean: new behavior belongs in the internal packages and
// is surfaced here through a dedicated command or flag.
package main
