// Package walker produces the current set of eligible media files under a
// library root.
//
// The walk excludes any subtree whose directory name case-insensitively
// equals the reserved thumbnail-storage name, both to avoid re-ingesting
// generated artifacts and to skip descending into what can be a very large
// directory. Files are filtered to the extension allow-lists in
// mediatypes; everything else is silently ignored.
package walker
