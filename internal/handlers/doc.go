// Package handlers implements the HTTP API: catalog queries, tag
// management, descriptions, thumbnail serving, reconcile control, and
// health/version endpoints.
package handlers
