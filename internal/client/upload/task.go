package upload

import (
	"path"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// Task is one file on its way to one remote path. Only the queue, the
// runner and the coordinator mutate it; everybody else reads a TaskView.
type Task struct {
	mu sync.Mutex

	id           string
	src          Source
	relativePath string
	targetPath   string
	size         int64
	modTime      time.Time
	plan         Plan
	uploaded     map[int]struct{}
	status       models.TaskStatus
	err          error
	journaled    bool
	createdAt    time.Time
	startedAt    time.Time
}

// TaskView is a read-only snapshot of a task.
type TaskView struct {
	ID              string
	Name            string
	RelativePath    string
	TargetPath      string
	DestinationPath string
	Size            int64
	ChunkSize       int64
	TotalChunks     int
	UploadedChunks  []int
	Status          models.TaskStatus
	Progress        float64
	Err             error
	StartedAt       time.Time
}

func newTask(id string, src Source, relativePath, targetPath string, plan Plan, uploaded []int) *Task {
	t := &Task{
		id:           id,
		src:          src,
		relativePath: relativePath,
		targetPath:   targetPath,
		size:         src.Size(),
		modTime:      src.ModTime(),
		plan:         plan,
		uploaded:     make(map[int]struct{}, len(uploaded)),
		status:       models.StatusPending,
		createdAt:    time.Now(),
	}
	for _, idx := range uploaded {
		if idx >= 0 && idx < plan.TotalChunks {
			t.uploaded[idx] = struct{}{}
		}
	}
	return t
}

func (t *Task) ID() string { return t.id }

func (t *Task) Status() models.TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// View returns a consistent snapshot of the task.
func (t *Task) View() TaskView {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := make([]int, 0, len(t.uploaded))
	for i := range t.uploaded {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	return TaskView{
		ID:              t.id,
		Name:            t.fileName(),
		RelativePath:    t.relativePath,
		TargetPath:      t.targetPath,
		DestinationPath: t.destinationPath(),
		Size:            t.size,
		ChunkSize:       t.plan.ChunkSize,
		TotalChunks:     t.plan.TotalChunks,
		UploadedChunks:  idx,
		Status:          t.status,
		Progress:        float64(len(idx)) / float64(t.plan.TotalChunks),
		Err:             t.err,
		StartedAt:       t.startedAt,
	}
}

func (t *Task) fileName() string { return path.Base(t.relativePath) }

func (t *Task) destinationPath() string { return common.JoinRemote(t.targetPath, t.relativePath) }

func (t *Task) setStatus(s models.TaskStatus, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
	t.err = err
	if s == models.StatusUploading && t.startedAt.IsZero() {
		t.startedAt = time.Now()
	}
}

func (t *Task) hasChunk(idx int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.uploaded[idx]
	return ok
}

func (t *Task) markChunk(idx int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.uploaded[idx] = struct{}{}
}

func (t *Task) complete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.uploaded) == t.plan.TotalChunks
}

func (t *Task) record() *models.TaskRecord {
	v := t.View()
	now := time.Now()
	rec := &models.TaskRecord{
		ID:             v.ID,
		RelativePath:   v.RelativePath,
		TargetPath:     v.TargetPath,
		Size:           v.Size,
		ModTime:        t.modTime,
		ChunkSize:      v.ChunkSize,
		TotalChunks:    v.TotalChunks,
		Status:         v.Status,
		UploadedChunks: v.UploadedChunks,
		CreatedAt:      t.createdAt,
		UpdatedAt:      now,
	}
	if ls, ok := t.src.(localSource); ok {
		rec.SourcePath = ls.Path()
	}
	return rec
}

func (t *Task) closeSource() {
	if t.src != nil {
		_ = t.src.Close()
	}
}
