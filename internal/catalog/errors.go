package catalog

import "errors"

var (
	// ErrDuplicatePath is returned by InsertFile when the normalized path
	// already has a catalog row. The reconciliation diff runs before
	// insertion, so hitting this indicates a caller bug rather than a
	// normal race.
	ErrDuplicatePath = errors.New("catalog: path already exists")

	// ErrReservedTag is returned when a caller tries to delete one of the
	// built-in classification tags, or to remove one from a file.
	ErrReservedTag = errors.New("catalog: tag is reserved")

	// ErrReservedConflict is returned when an assignment would leave a
	// file holding more than one classification tag.
	ErrReservedConflict = errors.New("catalog: file already holds a classification tag")

	// ErrNotFound is returned when a lookup matches no catalog row.
	ErrNotFound = errors.New("catalog: not found")
)
