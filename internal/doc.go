// Package internal contains the implementation packages of the landing page.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - api: Client for the posts, users, comments and photos of the remote API
//   - section: View-models of the articles, users and statistics sections
//   - landing: A page composed of the three sections
//   - view: HTML components, message catalog and embedded assets
//   - server: HTTP server with live section updates over WebSocket
//   - tui: Terminal rendering of a page
//   - mockapi: Generated stand-in for the remote API
//   - watcher: File system monitoring with debouncing
//   - config, logging, errors, validation, version: Shared infrastructure
//
// # Data Flow
//
// A page mounts its sections, each section fetches through the api client and
// settles into its final state exactly once, and the page tells its renderer
// which section changed. The server renders the changed section and pushes it
// to the browser; the terminal view redraws.
package internal
