package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// Client is the GophDrive backend API as seen by the client packages.
type Client interface {
	Ping(ctx context.Context) error

	Check(ctx context.Context, req models.CheckRequest) (*models.CheckResult, error)
	UploadChunk(ctx context.Context, chunk models.ChunkUpload) error
	Merge(ctx context.Context, req models.MergeRequest) (*models.MergeResult, error)
	Cancel(ctx context.Context, hash string) error

	ListFiles(ctx context.Context, path string) (*models.Listing, error)
	CreateFolder(ctx context.Context, parent, name string) error
	Delete(ctx context.Context, path string) error
	Rename(ctx context.Context, oldPath, newName string) (string, error)
	Move(ctx context.Context, sourcePath, targetDir string) (string, error)
	Download(ctx context.Context, path string, w io.Writer) (int64, error)
	DownloadArchive(ctx context.Context, req models.BatchDownloadRequest, w io.Writer) (int64, error)
}
