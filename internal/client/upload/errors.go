package upload

import "errors"

var (
	// ErrDuplicate is returned by Enqueue when the destination already holds
	// a complete file and there is nothing to resume.
	ErrDuplicate = errors.New("file already exists")

	ErrPaused    = errors.New("upload paused")
	ErrCancelled = errors.New("upload cancelled")
	ErrNotFound  = errors.New("task not found")

	// Failure taxonomy. ErrProbeFailure and ErrCancelNotice are non-fatal;
	// ErrChunkTransfer and ErrMergeFailure put the task into the error state.
	ErrProbeFailure  = errors.New("existence probe failed")
	ErrChunkTransfer = errors.New("chunk transfer failed")
	ErrMergeFailure  = errors.New("merge failed")
	ErrCancelNotice  = errors.New("cancel notice failed")
)
