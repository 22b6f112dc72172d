// Package server exposes the configurator over an HTTP JSON API.
//
// Each browser tab owns a session: a wizard.Controller keyed by a random id.
// Catalog, manifest, heritage and demo endpoints are shared. Saved designs
// are global because the history slot is a single key.
//
// When paths.api_token is set every /api route except /api/health requires
// "Authorization: Bearer <token>".
package server
