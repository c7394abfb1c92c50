// Package application provides application initialization and dependency wiring.
// It seeds the configuration resolver from the loaded runtime config and builds
// the API handler, router, and HTTP server, keeping the main package focused on
// CLI parsing and orchestration.
package application
