package tasks

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

type Repository interface {
	// Save inserts or replaces a task row and adds its known chunks.
	Save(ctx context.Context, rec *models.TaskRecord) error
	// MarkChunk records a confirmed chunk and marks the task uploading.
	MarkChunk(ctx context.Context, id string, index int) error
	SetStatus(ctx context.Context, id string, status models.TaskStatus) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.TaskRecord, error)
	// List returns all tasks, oldest first.
	List(ctx context.Context) ([]*models.TaskRecord, error)
	ListUnfinished(ctx context.Context) ([]*models.TaskRecord, error)
}
