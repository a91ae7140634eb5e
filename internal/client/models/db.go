// Package models defines client-side data models shared by the GophDrive
// client packages: backend wire DTOs, remote listings, and the upload
// journal records persisted in SQLite.
package models

import "time"

// TaskStatus is the lifecycle state of one upload task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusUploading TaskStatus = "uploading"
	StatusPaused    TaskStatus = "paused"
	StatusCompleted TaskStatus = "completed"
	StatusCancelled TaskStatus = "cancelled"
	StatusError     TaskStatus = "error"
)

// Unfinished reports whether a task in this state may still be resumed.
func (s TaskStatus) Unfinished() bool {
	switch s {
	case StatusPending, StatusUploading, StatusPaused, StatusError:
		return true
	default:
		return false
	}
}

// TaskRecord is the journal row for a task whose source is a local file.
type TaskRecord struct {
	// ID is the task identifier (resumability key on the backend).
	ID string

	// SourcePath is the local file the bytes come from.
	SourcePath string

	// RelativePath is relative to TargetPath; TargetPath is the remote
	// folder the task was queued into.
	RelativePath string
	TargetPath   string

	Size        int64
	ModTime     time.Time
	ChunkSize   int64
	TotalChunks int
	Status      TaskStatus

	// UploadedChunks holds indices confirmed by the backend, ascending.
	UploadedChunks []int

	CreatedAt time.Time
	UpdatedAt time.Time
}
