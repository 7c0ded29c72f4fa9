/*
Package catalog owns the relational metadata store: catalogued files,
tags, their many-to-many associations, descriptions and the metadata
records (persisted file count, chosen library root) that reconciliation
depends on.

The store is a single SQLite database. Referential integrity is enforced
in the schema: the association table carries composite-key rows with
cascading foreign keys, so deleting a file or a tag removes its
associations automatically. The three classification tags (Image, Video,
Audio) are seeded idempotently at initialization and refuse deletion.

Every mutating call commits before returning. Writes are serialized
through a single writer lock; reads may run concurrently and can observe
the catalog mid-update during a generation batch.
*/
package catalog
