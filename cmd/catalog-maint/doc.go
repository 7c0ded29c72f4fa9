// Command catalog-maint performs offline maintenance on the catalog
// database: statistics, tag listing, schema migration, and space
// reclamation. Run it
// against the same DATABASE_DIR the service uses, while the service is
// stopped.
package main
