package storage

import "errors"

var (
	// ErrIncomplete is returned by Merge when a chunk index is missing.
	ErrIncomplete = errors.New("chunks missing")
	// ErrTooLarge is returned when a file would exceed the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrMoveIntoSelf is returned when a folder would be moved into itself
	// or one of its descendants.
	ErrMoveIntoSelf = errors.New("cannot move a folder into itself")
	// ErrNotFolder is returned when a folder operation targets a file.
	ErrNotFolder = errors.New("not a folder")
)
