// Package metrics defines the Prometheus collectors exposed by the media
// catalog service.
//
// Collectors are registered at package init via promauto and grouped by
// subsystem: HTTP surface, catalog store, reconciliation engine, thumbnail
// pipeline and filesystem helpers. Consumers update them directly; the
// /metrics endpoint is wired in main.
package metrics
