package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/repositories/tasks"
	"github.com/dmitrijs2005/gophdrive/internal/client/upload"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

type UploadService interface {
	// Put queues local files, and local directories as folder uploads, into
	// the current remote directory and starts processing.
	Put(ctx context.Context, paths ...string) ([]string, error)
	// Restore re-queues unfinished uploads from the journal. Uploads that
	// ended in error are re-queued only when includeFailed is set.
	Restore(ctx context.Context, includeFailed bool) (int, error)
	Tasks() []upload.TaskView
	Pause()
	Resume(ctx context.Context)
	CancelAll(ctx context.Context)
	Remove(ctx context.Context, id string)
	// Wait blocks until the queue stops processing.
	Wait()
}

type uploadService struct {
	queue   *upload.Queue
	runner  *upload.Runner
	folders upload.FolderCreator
	browse  BrowseService
	journal tasks.Repository
	log     logging.Logger

	open func(path string) (*upload.FileSource, error)
}

func NewUploadService(q *upload.Queue, r *upload.Runner, folders upload.FolderCreator,
	browse BrowseService, journal tasks.Repository, log logging.Logger) UploadService {
	return &uploadService{
		queue:   q,
		runner:  r,
		folders: folders,
		browse:  browse,
		journal: journal,
		log:     log,
		open:    upload.OpenFile,
	}
}

func (s *uploadService) Put(ctx context.Context, paths ...string) ([]string, error) {
	s.queue.SetRoot(s.browse.Cwd())

	var ids []string
	var errs []error
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		var got []string
		if st.IsDir() {
			got, err = s.putDir(ctx, p)
		} else {
			got, err = s.putFile(ctx, p)
		}
		ids = append(ids, got...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(ids) > 0 {
		s.runner.Start(ctx)
	}
	return ids, errors.Join(errs...)
}

func (s *uploadService) putFile(ctx context.Context, p string) ([]string, error) {
	src, err := s.open(p)
	if err != nil {
		return nil, err
	}
	id, err := s.queue.Enqueue(ctx, src, src.Name())
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

func (s *uploadService) putDir(ctx context.Context, dir string) ([]string, error) {
	local, err := filex.WalkFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", dir, err)
	}

	var errs []error
	files := make([]upload.FolderFile, 0, len(local))
	for _, lf := range local {
		src, err := s.open(lf.Path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, upload.FolderFile{Source: src, RelativePath: lf.RelativePath})
	}

	ids, err := s.queue.EnqueueFolder(ctx, s.folders, files)
	if err != nil {
		errs = append(errs, err)
	}
	return ids, errors.Join(errs...)
}

func (s *uploadService) Restore(ctx context.Context, includeFailed bool) (int, error) {
	recs, err := s.journal.ListUnfinished(ctx)
	if err != nil {
		return 0, fmt.Errorf("error reading upload journal: %w", err)
	}

	restored := 0
	for _, rec := range recs {
		if rec.Status == models.StatusError && !includeFailed {
			continue
		}
		if _, err := s.queue.Task(rec.ID); err == nil {
			continue
		}
		if err := s.restoreOne(ctx, rec); err != nil {
			s.log.Warn(ctx, "dropping journaled upload", "id", rec.ID, "source", rec.SourcePath, "error", err)
			if derr := s.journal.Delete(ctx, rec.ID); derr != nil && !errors.Is(derr, common.ErrNotFound) {
				s.log.Warn(ctx, "journal delete failed", "id", rec.ID, "error", derr)
			}
			continue
		}
		restored++
	}

	if restored > 0 {
		s.runner.Start(ctx)
	}
	return restored, nil
}

func (s *uploadService) restoreOne(ctx context.Context, rec *models.TaskRecord) error {
	src, err := s.open(rec.SourcePath)
	if err != nil {
		return err
	}
	if src.Size() != rec.Size || !src.ModTime().Equal(rec.ModTime) {
		_ = src.Close()
		return errors.New("source file changed since it was queued")
	}
	_, err = s.queue.EnqueueResumed(ctx, src, rec)
	return err
}

func (s *uploadService) Tasks() []upload.TaskView { return s.queue.Tasks() }

func (s *uploadService) Pause() { s.runner.PauseAll() }

func (s *uploadService) Resume(ctx context.Context) { s.runner.ResumeAll(ctx) }

func (s *uploadService) CancelAll(ctx context.Context) { s.runner.CancelAll(ctx) }

func (s *uploadService) Remove(ctx context.Context, id string) { s.runner.Remove(ctx, id) }

func (s *uploadService) Wait() { s.runner.Wait() }
