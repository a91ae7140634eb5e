package upload

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// FolderFile is one file of a folder submission.
type FolderFile struct {
	Source       Source
	RelativePath string
}

// FolderPlan lists every intermediate directory of the given relative file
// paths, parents before children, each once, in first-seen order.
func FolderPlan(relativePaths []string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, p := range relativePaths {
		parts := strings.Split(common.CleanRemote(p), "/")
		for i := 1; i < len(parts); i++ {
			d := strings.Join(parts[:i], "/")
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// EnqueueFolder creates the folder structure of files under the queue root
// and then enqueues every file. Folder creation is best-effort: an existing
// folder counts as success and other failures are only logged. Files that
// cannot be enqueued are skipped; their errors are joined in the result.
func (q *Queue) EnqueueFolder(ctx context.Context, folders FolderCreator, files []FolderFile) ([]string, error) {
	root := q.Root()

	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = f.RelativePath
	}
	for _, dir := range FolderPlan(rels) {
		parent, name := common.SplitRemote(common.JoinRemote(root, dir))
		err := folders.CreateFolder(ctx, parent, name)
		switch {
		case err == nil:
			q.log.Debug(ctx, "folder created", "path", common.JoinRemote(parent, name))
		case errors.Is(err, common.ErrAlreadyExists):
		default:
			q.log.Warn(ctx, "folder creation failed", "path", common.JoinRemote(parent, name), "error", err)
		}
	}

	ids := make([]string, 0, len(files))
	var errs []error
	for _, f := range files {
		id, err := q.Enqueue(ctx, f.Source, f.RelativePath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids, errors.Join(errs...)
}
