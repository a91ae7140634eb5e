package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// Coordinator drives a single task through chunk transfer and merge.
//
// Chunks go out strictly one after another; each must be acknowledged
// before the next is read. The queue's Control is consulted before every
// chunk, which bounds pause latency to one chunk transfer.
type Coordinator struct {
	q         *Queue
	backend   Backend
	control   *Control
	refresher Refresher
	log       logging.Logger
}

func newCoordinator(q *Queue, refresher Refresher) *Coordinator {
	return &Coordinator{
		q:         q,
		backend:   q.backend,
		control:   q.control,
		refresher: refresher,
		log:       q.log,
	}
}

// Upload runs t until it completes, pauses, is cancelled or fails.
//
// It returns nil on completion, ErrPaused or ErrCancelled when a checkpoint
// stopped it, the context error when ctx ended, and an error wrapping
// ErrChunkTransfer or ErrMergeFailure otherwise. Task status is updated
// accordingly except for cancellation, which the caller finalizes.
func (c *Coordinator) Upload(ctx context.Context, t *Task) error {
	log := c.log.With("id", t.id, "path", t.destinationPath())

	t.setStatus(models.StatusUploading, nil)
	c.q.emit(EventStarted, t, nil)

	for idx := 0; idx < t.plan.TotalChunks; idx++ {
		if t.hasChunk(idx) {
			continue
		}
		if err := c.checkpoint(ctx, t); err != nil {
			return err
		}

		if err := c.sendChunk(ctx, t, idx); err != nil {
			if ctx.Err() != nil {
				return c.suspend(ctx, t, ctx.Err())
			}
			return c.fail(ctx, t, err)
		}

		t.markChunk(idx)
		if t.journaled {
			if err := c.q.journal.MarkChunk(ctx, t.id, idx); err != nil {
				log.Warn(ctx, "journal chunk update failed", "index", idx, "error", err)
			}
		}
		log.Debug(ctx, "chunk sent", "index", idx, "total", t.plan.TotalChunks)
		c.q.emit(EventProgress, t, nil)
	}

	if c.control.cancelRequested(t.id) {
		return ErrCancelled
	}
	if !t.complete() {
		return c.fail(ctx, t, fmt.Errorf("%w: chunks missing before merge", ErrMergeFailure))
	}

	res, err := c.backend.Merge(ctx, models.MergeRequest{
		Hash:        t.id,
		FileName:    t.fileName(),
		FilePath:    t.relativePath,
		TargetPath:  t.targetPath,
		TotalChunks: t.plan.TotalChunks,
	})
	if err != nil {
		return c.fail(ctx, t, fmt.Errorf("%w: %w", ErrMergeFailure, err))
	}

	t.setStatus(models.StatusCompleted, nil)
	if res != nil && res.Message != "" {
		log.Debug(ctx, res.Message)
	} else {
		log.Debug(ctx, "upload completed")
	}

	if c.refresher != nil {
		if err := c.refresher.Refresh(ctx, t.targetPath); err != nil {
			log.Warn(ctx, "listing refresh failed", "error", err)
		}
	}
	return nil
}

func (c *Coordinator) checkpoint(ctx context.Context, t *Task) error {
	if err := ctx.Err(); err != nil {
		return c.suspend(ctx, t, err)
	}
	err := c.control.checkpoint(t.id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPaused):
		return c.suspend(ctx, t, err)
	default:
		return err
	}
}

// suspend parks the task as paused. Used both for user pauses and for a
// context that ended, so the task can resume later from its next chunk.
func (c *Coordinator) suspend(ctx context.Context, t *Task, cause error) error {
	t.setStatus(models.StatusPaused, nil)
	c.persistStatus(ctx, t, models.StatusPaused)
	c.q.emit(EventPaused, t, nil)
	return cause
}

func (c *Coordinator) fail(ctx context.Context, t *Task, err error) error {
	t.setStatus(models.StatusError, err)
	c.persistStatus(ctx, t, models.StatusError)
	c.log.Debug(ctx, "upload failed", "id", t.id, "error", err)
	return err
}

func (c *Coordinator) persistStatus(ctx context.Context, t *Task, s models.TaskStatus) {
	if !t.journaled {
		return
	}
	// Persist even when ctx has ended so the journal reflects the pause.
	if err := c.q.journal.SetStatus(context.WithoutCancel(ctx), t.id, s); err != nil {
		c.log.Warn(ctx, "journal status update failed", "id", t.id, "error", err)
	}
}

func (c *Coordinator) sendChunk(ctx context.Context, t *Task, idx int) error {
	off, n := t.plan.Bounds(idx, t.size)
	data := make([]byte, n)
	if _, err := io.ReadFull(io.NewSectionReader(t.src, off, n), data); err != nil {
		return fmt.Errorf("%w: read chunk %d: %w", ErrChunkTransfer, idx, err)
	}

	err := c.backend.UploadChunk(ctx, models.ChunkUpload{
		Hash:        t.id,
		ChunkIndex:  idx,
		TotalChunks: t.plan.TotalChunks,
		FileName:    t.fileName(),
		FilePath:    t.relativePath,
		TargetPath:  t.targetPath,
		Data:        data,
	})
	if err != nil {
		return fmt.Errorf("%w: chunk %d: %w", ErrChunkTransfer, idx, err)
	}
	return nil
}
