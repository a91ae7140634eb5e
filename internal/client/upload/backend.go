package upload

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// Backend is the part of the storage backend the upload engine talks to.
type Backend interface {
	Check(ctx context.Context, req models.CheckRequest) (*models.CheckResult, error)
	UploadChunk(ctx context.Context, chunk models.ChunkUpload) error
	Merge(ctx context.Context, req models.MergeRequest) (*models.MergeResult, error)
	Cancel(ctx context.Context, hash string) error
}

// FolderCreator creates remote folders. Implementations report an existing
// folder with an error matching common.ErrAlreadyExists.
type FolderCreator interface {
	CreateFolder(ctx context.Context, parent, name string) error
}

// Refresher is asked to reload the listing of a remote folder after a file
// has landed in it.
type Refresher interface {
	Refresh(ctx context.Context, path string) error
}

// Journal persists tasks backed by local files so they survive a restart.
type Journal interface {
	Save(ctx context.Context, rec *models.TaskRecord) error
	MarkChunk(ctx context.Context, id string, index int) error
	SetStatus(ctx context.Context, id string, status models.TaskStatus) error
	Delete(ctx context.Context, id string) error
}
